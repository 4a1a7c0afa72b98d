package redis_repo

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testRedisAddr     = "localhost:6379"
	testRedisPassword = "password"
)

type ProductCacheRepoTestSuite struct {
	suite.Suite
	client *redis.Client
	repo   *ProductCacheRepo
}

func (suite *ProductCacheRepoTestSuite) SetupSuite() {
	client := redis.NewClient(&redis.Options{
		Addr:     testRedisAddr,
		Password: testRedisPassword,
	})
	require.NoError(suite.T(), client.Ping(context.Background()).Err())

	suite.client = client
	suite.repo = NewProductCacheRepo(client)
}

func (suite *ProductCacheRepoTestSuite) SetupTest() {
	suite.client.FlushDB(context.Background())
}

func (suite *ProductCacheRepoTestSuite) TearDownSuite() {
	suite.client.Close()
}

func (suite *ProductCacheRepoTestSuite) TestSetAndGetProduct() {
	product := &model.Product{
		ID:       1,
		Name:     "Keyboard",
		Price:    decimal.NewFromFloat(59.99),
		Stock:    5,
		IsActive: true,
		Specs:    model.SpecDoc{"layout": "ISO"},
	}

	require.NoError(suite.T(), suite.repo.SetProduct(context.Background(), product))

	cached, err := suite.repo.GetProduct(context.Background(), 1)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Keyboard", cached.Name)
	require.True(suite.T(), decimal.NewFromFloat(59.99).Equal(cached.Price))
	require.Equal(suite.T(), "ISO", cached.Specs["layout"])
}

func (suite *ProductCacheRepoTestSuite) TestGetProduct_CacheMiss() {
	cached, err := suite.repo.GetProduct(context.Background(), 999)
	require.ErrorIs(suite.T(), err, ErrCacheMiss)
	require.Nil(suite.T(), cached)
}

func (suite *ProductCacheRepoTestSuite) TestDeleteProduct() {
	product := &model.Product{ID: 2, Name: "Mouse", Price: decimal.NewFromInt(30)}
	require.NoError(suite.T(), suite.repo.SetProduct(context.Background(), product))

	require.NoError(suite.T(), suite.repo.DeleteProduct(context.Background(), 2))

	_, err := suite.repo.GetProduct(context.Background(), 2)
	require.ErrorIs(suite.T(), err, ErrCacheMiss)

	// 刪不存在的key不算錯誤
	require.NoError(suite.T(), suite.repo.DeleteProduct(context.Background(), 999))
}

func TestProductCacheRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductCacheRepoTestSuite))
}
