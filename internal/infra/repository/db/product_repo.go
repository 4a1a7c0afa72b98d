package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductReferenced 商品已被訂單引用, 只能封存不能刪除
	ErrProductReferenced = errors.New("product is referenced by orders")
)

// InsufficientStockError carries enough detail for the client to adjust the
// cart: which product, how many are available, how many were requested.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Available uint
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d",
		e.ProductID, e.Name, e.Requested, e.Available)
}

type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID uint) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []uint) ([]model.Product, error)
	GetActiveProducts(ctx context.Context) ([]model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	UpdateProductSpecs(ctx context.Context, productID uint, specs model.SpecDoc) error
	ArchiveProduct(ctx context.Context, productID uint) error
	HardDeleteProduct(ctx context.Context, productID uint) error
}

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductRepo) GetProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Preload("Category").First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetProductsByIDs(ctx context.Context, productIDs []uint) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error
	return products, err
}

// Read - 前台只回傳active商品
func (s *ProductRepo) GetActiveProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Category").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// Read - 後台回傳全部商品, 含封存
func (s *ProductRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Category").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// Update - 更新商品, 不會動到stock以外已封存的訂單快照
func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
			"category_id": product.CategoryID,
			"is_active":   product.IsActive,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Update - 附加schema-less規格文件
func (s *ProductRepo) UpdateProductSpecs(ctx context.Context, productID uint, specs model.SpecDoc) error {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("specs", specs)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete - 軟刪除(封存)商品
func (s *ProductRepo) ArchiveProduct(ctx context.Context, productID uint) error {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete - 硬刪除商品, 有訂單引用時拒絕
func (s *ProductRepo) HardDeleteProduct(ctx context.Context, productID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.OrderItem{}).
			Where("product_id = ?", productID).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrProductReferenced
		}

		result := tx.Delete(&model.Product{}, productID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

var _ IProductRepository = (*ProductRepo)(nil)
