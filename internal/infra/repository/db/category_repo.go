package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrCategoryNotFound 分類不存在
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryNameTaken 分類名稱重複
	ErrCategoryNameTaken = errors.New("category name already exists")
)

type ICategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, categoryID uint) (*model.Category, error)
	GetAllCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, categoryID uint) error
}

type CategoryRepo struct {
	db *DbDao
}

func NewCategoryRepo(db *DbDao) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (s *CategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	err := s.db.WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCategoryNameTaken
	}
	return err
}

func (s *CategoryRepo) GetCategoryByID(ctx context.Context, categoryID uint) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).First(&category, categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryRepo) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (s *CategoryRepo) UpdateCategory(ctx context.Context, category *model.Category) error {
	result := s.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrCategoryNameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete - 刪除分類, 相依商品的分類設為null, 不連動刪除商品
func (s *CategoryRepo) DeleteCategory(ctx context.Context, categoryID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Category{}, categoryID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

var _ ICategoryRepository = (*CategoryRepo)(nil)
