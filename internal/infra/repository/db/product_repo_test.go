package db

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ProductRepoTestSuite struct {
	suite.Suite
	db           *gorm.DB
	productRepo  *ProductRepo
	categoryRepo *CategoryRepo
	orderRepo    *OrderRepo
	userRepo     *UserRepo
}

func (suite *ProductRepoTestSuite) SetupSuite() {
	db, err := GetDbConn("lab_storefront", "localhost", "5432", "royce", "password")
	require.NoError(suite.T(), err)
	dbDao := NewDbDao(db)
	require.NoError(suite.T(), dbDao.InitMigrate())

	suite.db = db
	suite.productRepo = NewProductRepo(dbDao)
	suite.categoryRepo = NewCategoryRepo(dbDao)
	suite.orderRepo = NewOrderRepo(dbDao)
	suite.userRepo = NewUserRepo(dbDao)
}

func (suite *ProductRepoTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM order_items")
	suite.db.Exec("DELETE FROM orders")
	suite.db.Exec("DELETE FROM products")
	suite.db.Exec("DELETE FROM categories")
	suite.db.Exec("DELETE FROM users")
}

func (suite *ProductRepoTestSuite) TearDownSuite() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

func (suite *ProductRepoTestSuite) createTestProduct(name string, active bool) *model.Product {
	product := &model.Product{
		Name:     name,
		Price:    decimal.NewFromInt(100),
		Stock:    10,
		IsActive: active,
	}
	require.NoError(suite.T(), suite.productRepo.CreateProduct(context.Background(), product))
	return product
}

func (suite *ProductRepoTestSuite) TestCreateAndGetProduct() {
	category := &model.Category{Name: "Electronics"}
	require.NoError(suite.T(), suite.categoryRepo.CreateCategory(context.Background(), category))

	product := &model.Product{
		Name:       "Keyboard",
		Price:      decimal.NewFromFloat(59.99),
		Stock:      5,
		CategoryID: &category.ID,
		IsActive:   true,
	}
	require.NoError(suite.T(), suite.productRepo.CreateProduct(context.Background(), product))

	found, err := suite.productRepo.GetProductByID(context.Background(), product.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Keyboard", found.Name)
	require.True(suite.T(), decimal.NewFromFloat(59.99).Equal(found.Price))
	// Preload要帶出分類
	require.NotNil(suite.T(), found.Category)
	require.Equal(suite.T(), "Electronics", found.Category.Name)
}

func (suite *ProductRepoTestSuite) TestGetProductByID_NotFound() {
	found, err := suite.productRepo.GetProductByID(context.Background(), 99999)
	require.ErrorIs(suite.T(), err, ErrProductNotFound)
	require.Nil(suite.T(), found)
}

func (suite *ProductRepoTestSuite) TestGetActiveProducts_FiltersArchived() {
	suite.createTestProduct("Visible", true)
	suite.createTestProduct("Archived", false)

	active, err := suite.productRepo.GetActiveProducts(context.Background())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), active, 1)
	require.Equal(suite.T(), "Visible", active[0].Name)

	all, err := suite.productRepo.GetAllProducts(context.Background())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 2)
}

func (suite *ProductRepoTestSuite) TestUpdateProductSpecs() {
	product := suite.createTestProduct("Laptop", true)

	specs := model.SpecDoc{"cpu": "8-core", "ram_gb": float64(16)}
	require.NoError(suite.T(), suite.productRepo.UpdateProductSpecs(context.Background(), product.ID, specs))

	found, err := suite.productRepo.GetProductByID(context.Background(), product.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "8-core", found.Specs["cpu"])
	require.Equal(suite.T(), float64(16), found.Specs["ram_gb"])

	// 傳nil清空
	require.NoError(suite.T(), suite.productRepo.UpdateProductSpecs(context.Background(), product.ID, nil))
	found, err = suite.productRepo.GetProductByID(context.Background(), product.ID)
	require.NoError(suite.T(), err)
	require.Nil(suite.T(), found.Specs)
}

func (suite *ProductRepoTestSuite) TestArchiveProduct() {
	product := suite.createTestProduct("Old Model", true)

	require.NoError(suite.T(), suite.productRepo.ArchiveProduct(context.Background(), product.ID))

	found, err := suite.productRepo.GetProductByID(context.Background(), product.ID)
	require.NoError(suite.T(), err)
	require.False(suite.T(), found.IsActive)
}

func (suite *ProductRepoTestSuite) TestHardDeleteProduct_RefusedWhenReferenced() {
	user := &model.User{
		FirstName: "Test", LastName: "User",
		Email: "ref@example.com", Password: "hashed",
		Role: "customer", IsActive: true,
	}
	require.NoError(suite.T(), suite.userRepo.CreateUser(context.Background(), user))

	product := suite.createTestProduct("Referenced", true)
	order := &model.Order{
		UserID:      user.ID,
		Status:      "paid",
		TotalAmount: decimal.NewFromInt(100),
		OrderItems: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, PriceAtPurchase: decimal.NewFromInt(100)},
		},
	}
	require.NoError(suite.T(), suite.orderRepo.CreateOrderTx(context.Background(), order))

	err := suite.productRepo.HardDeleteProduct(context.Background(), product.ID)
	require.ErrorIs(suite.T(), err, ErrProductReferenced)

	// 商品還在, 歷史訂單的快照不能斷鏈
	_, err = suite.productRepo.GetProductByID(context.Background(), product.ID)
	require.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestHardDeleteProduct_Unreferenced() {
	product := suite.createTestProduct("Disposable", true)

	require.NoError(suite.T(), suite.productRepo.HardDeleteProduct(context.Background(), product.ID))

	_, err := suite.productRepo.GetProductByID(context.Background(), product.ID)
	require.ErrorIs(suite.T(), err, ErrProductNotFound)
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}
