package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/gateway/mercadopago"
	"github.com/RoyceAzure/lab/storefront/internal/infra/hook"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/rs/zerolog"
)

const hookNotifyTimeout = 15 * time.Second

type IPaymentService interface {
	ProcessPaymentNotification(ctx context.Context, paymentID string) error
}

/*
PaymentService 對帳gateway的異步付款通知。
通知通道是at-least-once、可能亂序、endpoint無認證 —
信任邊界是回頭向gateway查詢的權威payment資料, 加上payment id的冪等檢查。

每個payment id的流程:
 1. 向gateway取權威payment (通知body只取id)
 2. 非approved -> ack, 不建單 (終態)
 3. 無user correlation或無line items -> 400類錯誤, 不建單 (終態)
 4. 已有訂單帶此payment id -> ack, 無副作用 (重複投遞防護)
 5. 單一transaction內重驗庫存、寫order+items、扣庫存
 6. commit後best-effort通知自動化hook, hook失敗不影響回應
*/
type PaymentService struct {
	gateway      mercadopago.IClient
	orderRepo    db.IOrderRepository
	userRepo     db.IUserRepository
	productCache redis_repo.IProductCacheRepository
	notifier     hook.INotifier
	logger       *zerolog.Logger
}

// productCache 可為nil, 此時建單後不需要失效快取
func NewPaymentService(
	gateway mercadopago.IClient,
	orderRepo db.IOrderRepository,
	userRepo db.IUserRepository,
	productCache redis_repo.IProductCacheRepository,
	notifier hook.INotifier,
	logger *zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:      gateway,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		productCache: productCache,
		notifier:     notifier,
		logger:       logger,
	}
}

// ProcessPaymentNotification 回傳nil表示可以ack (200)。
// 回傳*er.AppError(400類)表示payload結構有問題, 重送也不會成功。
// 其他錯誤表示內部故障, handler回500讓gateway稍後重送 (冪等檢查保證重送安全)。
func (s *PaymentService) ProcessPaymentNotification(ctx context.Context, paymentID string) error {
	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return er.Wrap(er.InternalErrorCode, "failed to fetch payment from gateway", err)
	}

	if payment.Status != constants.PaymentStatusApproved {
		s.logger.Info().
			Str("payment_id", paymentID).
			Str("status", payment.Status).
			Msg("payment not approved, nothing to do")
		return nil
	}

	// user correlation缺失即終止, 不進transaction
	userID, err := parseUserReference(payment.ExternalReference)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return er.Newf(er.BadRequestCode, "payment %s references unknown user %d", paymentID, userID)
		}
		return err
	}

	orderItems, err := buildOrderItems(payment)
	if err != nil {
		return err
	}

	// 冪等檢查: 同一payment id最多一張訂單
	existing, err := s.orderRepo.GetOrderByPaymentID(ctx, paymentID)
	if err != nil {
		return err
	}
	if existing != nil {
		s.logger.Info().
			Str("payment_id", paymentID).
			Uint("order_id", existing.ID).
			Msg("payment already materialized, skipping")
		return nil
	}

	// 總額自己從line items重算; gateway金額可能含行項目以外的費用, 不一致時記log
	total := CalculateOrderAmount(orderItems)
	if !total.Equal(payment.TransactionAmount) {
		s.logger.Warn().
			Str("payment_id", paymentID).
			Str("line_total", total.String()).
			Str("gateway_amount", payment.TransactionAmount.String()).
			Msg("gateway amount differs from line total")
	}

	order := &model.Order{
		UserID:           userID,
		Status:           string(constants.OrderStatusPaid),
		TotalAmount:      total,
		PaymentGatewayID: &paymentID,
		OrderItems:       orderItems,
	}

	if err := s.orderRepo.CreateOrderTx(ctx, order); err != nil {
		// 並發重複投遞: unique index擋下第二筆, 視同已建單
		if errors.Is(err, db.ErrDuplicatePayment) {
			s.logger.Info().
				Str("payment_id", paymentID).
				Msg("concurrent delivery already materialized this payment")
			return nil
		}
		return err
	}

	s.logger.Info().
		Str("payment_id", paymentID).
		Uint("order_id", order.ID).
		Msg("order materialized from payment webhook")

	// commit已扣庫存, 快取裡的商品跟著失效
	invalidateOrderProducts(ctx, s.productCache, s.logger, order.OrderItems)

	// fire-and-forget, 交易已commit, hook失敗只記log
	go s.notifyOrderCreated(user, order)

	return nil
}

func (s *PaymentService) notifyOrderCreated(user *model.User, order *model.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), hookNotifyTimeout)
	defer cancel()

	lines := make([]hook.OrderLine, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		lines = append(lines, hook.OrderLine{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}

	s.notifier.NotifyOrderCreated(ctx, &hook.OrderSummary{
		Email:       user.Email,
		FirstName:   user.FirstName,
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Items:       lines,
	})
}

func parseUserReference(ref string) (uint, error) {
	if ref == "" {
		return 0, er.New(er.BadRequestCode, "approved payment is missing user reference")
	}
	userID, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || userID == 0 {
		return 0, er.Newf(er.BadRequestCode, "invalid user reference %q on payment", ref)
	}
	return uint(userID), nil
}

func buildOrderItems(payment *mercadopago.Payment) ([]model.OrderItem, error) {
	if len(payment.AdditionalInfo.Items) == 0 {
		return nil, er.New(er.BadRequestCode, "approved payment has no line items")
	}

	items := make([]model.OrderItem, 0, len(payment.AdditionalInfo.Items))
	for _, line := range payment.AdditionalInfo.Items {
		productID, err := strconv.ParseUint(line.ID, 10, 64)
		if err != nil || productID == 0 {
			return nil, er.Newf(er.BadRequestCode, "invalid product id %q on payment line", line.ID)
		}
		if line.Quantity <= 0 {
			return nil, er.Newf(er.BadRequestCode, "invalid quantity %d on payment line", int(line.Quantity))
		}
		items = append(items, model.OrderItem{
			ProductID:       uint(productID),
			Quantity:        int(line.Quantity),
			PriceAtPurchase: line.UnitPrice,
		})
	}
	return items, nil
}

var _ IPaymentService = (*PaymentService)(nil)
