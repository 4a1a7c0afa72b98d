package service

import (
	"context"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/gateway/mercadopago"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
)

// CheckoutURLs gateway付款完成後的導回位置
type CheckoutURLs struct {
	Success string
	Failure string
	Pending string
}

type ICheckoutService interface {
	CreatePreference(ctx context.Context, userID uint, items []model.CartItem) (string, error)
}

/*
CheckoutService 把購物車轉成gateway preference。
此階段對本地只做讀取, 不留任何寫入; 庫存真正扣減發生在webhook對帳時。
*/
type CheckoutService struct {
	productRepo db.IProductRepository
	gateway     mercadopago.IClient
	currency    string
	backURLs    CheckoutURLs
}

func NewCheckoutService(
	productRepo db.IProductRepository,
	gateway mercadopago.IClient,
	currency string,
	backURLs CheckoutURLs,
) *CheckoutService {
	return &CheckoutService{
		productRepo: productRepo,
		gateway:     gateway,
		currency:    currency,
		backURLs:    backURLs,
	}
}

// CreatePreference 驗證順序: 空購物車 -> 商品存在 -> 全車庫存 -> 呼叫gateway。
// 任一行庫存不足就擋下整次結帳, 不會打到gateway。
// 價格與品名一律取DB當下的權威資料, client傳來的價格不採用。
func (s *CheckoutService) CreatePreference(ctx context.Context, userID uint, items []model.CartItem) (string, error) {
	if len(items) == 0 {
		return "", er.New(er.BadRequestCode, "cart is empty")
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return "", er.Newf(er.InvalidArgumentCode, "invalid quantity %d for product %d", item.Quantity, item.ProductID)
		}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return "", err
	}
	productMap := make(map[uint]model.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	// 全車先驗完才能動gateway
	prefItems := make([]mercadopago.PreferenceItem, 0, len(items))
	for _, item := range items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return "", er.Newf(er.NotFoundCode, "product %d not found", item.ProductID)
		}
		if int(product.Stock) < item.Quantity {
			return "", er.Newf(er.ConflictCode,
				"insufficient stock for product %d (%s): requested %d, available %d",
				product.ID, product.Name, item.Quantity, product.Stock)
		}

		prefItems = append(prefItems, mercadopago.PreferenceItem{
			ID:         strconv.FormatUint(uint64(product.ID), 10),
			Title:      product.Name,
			Quantity:   item.Quantity,
			UnitPrice:  product.Price,
			CurrencyID: s.currency,
		})
	}

	pref, err := s.gateway.CreatePreference(ctx, &mercadopago.PreferenceRequest{
		Items: prefItems,
		BackURLs: mercadopago.BackURLs{
			Success: s.backURLs.Success,
			Failure: s.backURLs.Failure,
			Pending: s.backURLs.Pending,
		},
		AutoReturn:        "approved",
		ExternalReference: strconv.FormatUint(uint64(userID), 10),
	})
	if err != nil {
		return "", er.Wrap(er.UpstreamErrorCode, "payment gateway unavailable", err)
	}

	return pref.InitPoint, nil
}

var _ ICheckoutService = (*CheckoutService)(nil)
