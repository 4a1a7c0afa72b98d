package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicatePayment 該payment id已經有訂單
	ErrDuplicatePayment = errors.New("order already exists for payment id")
)

// OrderWithUser 後台訂單列表用, 帶客戶資訊
type OrderWithUser struct {
	model.Order
	FirstName string
	LastName  string
	Email     string
}

type IOrderRepository interface {
	CreateOrderTx(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	GetAllOrdersWithUser(ctx context.Context) ([]OrderWithUser, error)
	GetOrderByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*model.Order, error)
}

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrderTx 是唯一的訂單提交原語, webhook與後台手動建單共用。
// 單一transaction內: 逐行鎖定商品row、檢查庫存、寫入order與order items、扣庫存。
// 任一步失敗整筆rollback。
//
// 錯誤:
//   - ErrProductNotFound: 商品不存在
//   - *InsufficientStockError: 庫存不足
//   - ErrDuplicatePayment: payment id已存在訂單 (unique index擋下並發重複投遞)
func (s *OrderRepo) CreateOrderTx(ctx context.Context, order *model.Order) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.OrderItems {
			// 鎖定商品row, 讓並發下單對同一商品序列化
			var product model.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			// 檢查與扣減必須在同一把鎖內, 庫存不可為負
			if int(product.Stock) < item.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Available: product.Stock,
					Requested: item.Quantity,
				}
			}

			if err := tx.Model(&model.Product{}).
				Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePayment
			}
			return err
		}
		return nil
	})
	return err
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Read - 根據用戶ID查詢訂單
func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// Read - 查詢所有訂單, 帶客戶姓名與email
func (s *OrderRepo) GetAllOrdersWithUser(ctx context.Context) ([]OrderWithUser, error) {
	var orders []OrderWithUser
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Select("orders.*, users.first_name, users.last_name, users.email").
		Joins("JOIN users ON orders.user_id = users.id").
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

// Read - 冪等性檢查用, 查無資料回傳(nil, nil)
func (s *OrderRepo) GetOrderByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Where("payment_gateway_id = ?", paymentID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Update - 更新訂單狀態, 回傳更新後訂單
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*model.Order, error) {
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrOrderNotFound
	}
	return s.GetOrderByID(ctx, orderID)
}

var _ IOrderRepository = (*OrderRepo)(nil)
