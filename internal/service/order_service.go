package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ManualOrderLine 後台手動建單的一行
type ManualOrderLine struct {
	ProductID       uint
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

// ManualOrderParams 後台手動建單參數, 僅管理員可用
type ManualOrderParams struct {
	UserID           uint
	Status           string
	TotalAmount      decimal.Decimal
	PaymentGatewayID *string
	Items            []ManualOrderLine
}

type IOrderService interface {
	CreateManualOrder(ctx context.Context, params *ManualOrderParams) (*model.Order, error)
	GetOrder(ctx context.Context, orderID uint, requesterID uint, requesterRole string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	GetAllOrders(ctx context.Context) ([]db.OrderWithUser, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*model.Order, error)
}

type OrderService struct {
	orderRepo    db.IOrderRepository
	userRepo     db.IUserRepository
	productCache redis_repo.IProductCacheRepository
	logger       *zerolog.Logger
}

// productCache 可為nil, 此時建單後不需要失效快取
func NewOrderService(
	orderRepo db.IOrderRepository,
	userRepo db.IUserRepository,
	productCache redis_repo.IProductCacheRepository,
	logger *zerolog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		productCache: productCache,
		logger:       logger,
	}
}

// CalculateOrderAmount 用decimal逐行累加, 不走浮點數
func CalculateOrderAmount(items []model.OrderItem) decimal.Decimal {
	amount := decimal.NewFromInt(0)
	for _, item := range items {
		amount = amount.Add(item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return amount
}

// CreateManualOrder 與webhook對帳走同一個transaction原語,
// 庫存不變式一體適用: 手動建單同樣會先檢查庫存, 不足就整筆rollback。
func (s *OrderService) CreateManualOrder(ctx context.Context, params *ManualOrderParams) (*model.Order, error) {
	if params.UserID == 0 {
		return nil, er.New(er.BadRequestCode, "userId is required")
	}
	if !constants.IsValidOrderStatus(params.Status) {
		return nil, er.Newf(er.BadRequestCode, "invalid order status %q", params.Status)
	}
	if len(params.Items) == 0 {
		return nil, er.New(er.BadRequestCode, "order needs at least one item")
	}

	orderItems := make([]model.OrderItem, 0, len(params.Items))
	for _, line := range params.Items {
		if line.Quantity <= 0 {
			return nil, er.Newf(er.InvalidArgumentCode, "invalid quantity %d for product %d", line.Quantity, line.ProductID)
		}
		if line.PriceAtPurchase.IsNegative() {
			return nil, er.Newf(er.InvalidArgumentCode, "invalid price for product %d", line.ProductID)
		}
		orderItems = append(orderItems, model.OrderItem{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		})
	}

	// 不信任caller湊的總額, 自己重算並比對
	computed := CalculateOrderAmount(orderItems)
	if !computed.Equal(params.TotalAmount) {
		return nil, er.Newf(er.InvalidArgumentCode,
			"totalAmount %s does not match line total %s", params.TotalAmount, computed)
	}

	if _, err := s.userRepo.GetUserByID(ctx, params.UserID); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, er.Newf(er.NotFoundCode, "user %d not found", params.UserID)
		}
		return nil, err
	}

	order := &model.Order{
		UserID:           params.UserID,
		Status:           params.Status,
		TotalAmount:      computed,
		PaymentGatewayID: params.PaymentGatewayID,
		OrderItems:       orderItems,
	}

	if err := s.orderRepo.CreateOrderTx(ctx, order); err != nil {
		return nil, mapOrderCommitError(err)
	}

	// commit已扣庫存, 快取裡的商品跟著失效
	invalidateOrderProducts(ctx, s.productCache, s.logger, order.OrderItems)
	return order, nil
}

// GetOrder 僅訂單擁有者或管理員可查
func (s *OrderService) GetOrder(ctx context.Context, orderID uint, requesterID uint, requesterRole string) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, er.Newf(er.NotFoundCode, "order %d not found", orderID)
		}
		return nil, err
	}

	if requesterRole != string(constants.RoleAdmin) && order.UserID != requesterID {
		return nil, er.New(er.UnauthorizedCode, "not allowed to view this order")
	}
	return order, nil
}

func (s *OrderService) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.orderRepo.GetOrdersByUserID(ctx, userID)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]db.OrderWithUser, error) {
	return s.orderRepo.GetAllOrdersWithUser(ctx)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*model.Order, error) {
	if !constants.IsValidOrderStatus(status) {
		return nil, er.Newf(er.BadRequestCode, "invalid order status %q", status)
	}

	order, err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, er.Newf(er.NotFoundCode, "order %d not found", orderID)
		}
		return nil, err
	}
	return order, nil
}

// invalidateOrderProducts 建單扣了庫存之後踢掉受影響的商品快取,
// 否則商品讀取會撐到TTL才看到新庫存。失效失敗只記log, 不影響已commit的訂單。
func invalidateOrderProducts(ctx context.Context, cache redis_repo.IProductCacheRepository, logger *zerolog.Logger, items []model.OrderItem) {
	if cache == nil {
		return
	}
	for _, item := range items {
		if err := cache.DeleteProduct(ctx, item.ProductID); err != nil {
			logger.Warn().Uint("product_id", item.ProductID).Err(err).Msg("product cache invalidation failed")
		}
	}
}

// 把repo層的commit錯誤轉成client可見的結構化錯誤
func mapOrderCommitError(err error) error {
	var stockErr *db.InsufficientStockError
	if errors.As(err, &stockErr) {
		return er.Newf(er.ConflictCode,
			"insufficient stock for product %d (%s): requested %d, available %d",
			stockErr.ProductID, stockErr.Name, stockErr.Requested, stockErr.Available)
	}
	if errors.Is(err, db.ErrProductNotFound) {
		return er.New(er.NotFoundCode, "order references a product that does not exist")
	}
	if errors.Is(err, db.ErrDuplicatePayment) {
		return er.New(er.ConflictCode, "an order already exists for this payment id")
	}
	return err
}

var _ IOrderService = (*OrderService)(nil)
