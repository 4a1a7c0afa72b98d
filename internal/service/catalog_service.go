package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/rs/zerolog"
)

type ICatalogService interface {
	GetActiveProducts(ctx context.Context) ([]model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	UpdateProductSpecs(ctx context.Context, productID uint, specs model.SpecDoc) error
	ArchiveProduct(ctx context.Context, productID uint) error
	HardDeleteProduct(ctx context.Context, productID uint) error
	GetAllCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, categoryID uint) error
}

type CatalogService struct {
	productRepo  db.IProductRepository
	categoryRepo db.ICategoryRepository
	productCache redis_repo.IProductCacheRepository
	logger       *zerolog.Logger
}

// productCache 可為nil, 此時所有讀取直接走DB
func NewCatalogService(
	productRepo db.IProductRepository,
	categoryRepo db.ICategoryRepository,
	productCache redis_repo.IProductCacheRepository,
	logger *zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		productCache: productCache,
		logger:       logger,
	}
}

func (s *CatalogService) GetActiveProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.GetActiveProducts(ctx)
}

func (s *CatalogService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.GetAllProducts(ctx)
}

// GetProduct 先查快取, miss或快取故障時回DB, 快取故障不影響讀取
func (s *CatalogService) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	if s.productCache != nil {
		cached, err := s.productCache.GetProduct(ctx, productID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis_repo.ErrCacheMiss) {
			s.logger.Warn().Uint("product_id", productID).Err(err).Msg("product cache read failed")
		}
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, er.Newf(er.NotFoundCode, "product %d not found", productID)
		}
		return nil, err
	}

	if s.productCache != nil {
		if err := s.productCache.SetProduct(ctx, product); err != nil {
			s.logger.Warn().Uint("product_id", productID).Err(err).Msg("product cache write failed")
		}
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.productRepo.CreateProduct(ctx, product)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	err := s.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, er.Newf(er.NotFoundCode, "product %d not found", product.ID)
		}
		return nil, err
	}

	s.invalidateProduct(ctx, product.ID)
	return s.productRepo.GetProductByID(ctx, product.ID)
}

func (s *CatalogService) UpdateProductSpecs(ctx context.Context, productID uint, specs model.SpecDoc) error {
	err := s.productRepo.UpdateProductSpecs(ctx, productID, specs)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return er.Newf(er.NotFoundCode, "product %d not found", productID)
		}
		return err
	}
	s.invalidateProduct(ctx, productID)
	return nil
}

func (s *CatalogService) ArchiveProduct(ctx context.Context, productID uint) error {
	err := s.productRepo.ArchiveProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return er.Newf(er.NotFoundCode, "product %d not found", productID)
		}
		return err
	}
	s.invalidateProduct(ctx, productID)
	return nil
}

// HardDeleteProduct 只允許刪除未被任何訂單引用的商品, 其餘只能封存
func (s *CatalogService) HardDeleteProduct(ctx context.Context, productID uint) error {
	err := s.productRepo.HardDeleteProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return er.Newf(er.NotFoundCode, "product %d not found", productID)
		}
		if errors.Is(err, db.ErrProductReferenced) {
			return er.New(er.ConflictCode, "product is referenced by orders, archive it instead")
		}
		return err
	}
	s.invalidateProduct(ctx, productID)
	return nil
}

func (s *CatalogService) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.GetAllCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.Name == "" {
		return er.New(er.InvalidArgumentCode, "category name is required")
	}

	err := s.categoryRepo.CreateCategory(ctx, category)
	if errors.Is(err, db.ErrCategoryNameTaken) {
		return er.Newf(er.ConflictCode, "category %q already exists", category.Name)
	}
	return err
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	if category.Name == "" {
		return nil, er.New(er.InvalidArgumentCode, "category name is required")
	}

	err := s.categoryRepo.UpdateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, db.ErrCategoryNotFound) {
			return nil, er.Newf(er.NotFoundCode, "category %d not found", category.ID)
		}
		if errors.Is(err, db.ErrCategoryNameTaken) {
			return nil, er.Newf(er.ConflictCode, "category %q already exists", category.Name)
		}
		return nil, err
	}
	return s.categoryRepo.GetCategoryByID(ctx, category.ID)
}

// DeleteCategory 相依商品的分類會被設為null, 商品本身不刪
func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID uint) error {
	err := s.categoryRepo.DeleteCategory(ctx, categoryID)
	if errors.Is(err, db.ErrCategoryNotFound) {
		return er.Newf(er.NotFoundCode, "category %d not found", categoryID)
	}
	return err
}

func (s *CatalogService) invalidateProduct(ctx context.Context, productID uint) {
	if s.productCache == nil {
		return
	}
	if err := s.productCache.DeleteProduct(ctx, productID); err != nil {
		s.logger.Warn().Uint("product_id", productID).Err(err).Msg("product cache invalidation failed")
	}
}

func validateProduct(product *model.Product) error {
	if product.Name == "" {
		return er.New(er.InvalidArgumentCode, "product name is required")
	}
	if !product.Price.IsPositive() {
		return er.New(er.InvalidArgumentCode, "product price must be greater than zero")
	}
	return nil
}

var _ ICatalogService = (*CatalogService)(nil)
