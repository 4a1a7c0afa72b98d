package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 快取內沒有該商品
var ErrCacheMiss = errors.New("product not in cache")

const productCacheTTL = 5 * time.Minute

type IProductCacheRepository interface {
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)
	SetProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, productID uint) error
}

/*
redis 專注商品讀取快取
結構:

	product:{id}: <json encoded product>
*/
type ProductCacheRepo struct {
	productCache *redis.Client
}

func NewProductCacheRepo(productCache *redis.Client) *ProductCacheRepo {
	return &ProductCacheRepo{productCache: productCache}
}

func generateProductKey(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}

// 錯誤:
//   - ErrCacheMiss: 快取沒有該商品
//   - err: 其他錯誤
func (s *ProductCacheRepo) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	raw, err := s.productCache.Get(ctx, generateProductKey(productID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var product model.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductCacheRepo) SetProduct(ctx context.Context, product *model.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return s.productCache.Set(ctx, generateProductKey(product.ID), raw, productCacheTTL).Err()
}

// 商品異動後失效快取
func (s *ProductCacheRepo) DeleteProduct(ctx context.Context, productID uint) error {
	return s.productCache.Del(ctx, generateProductKey(productID)).Err()
}

var _ IProductCacheRepository = (*ProductCacheRepo)(nil)
