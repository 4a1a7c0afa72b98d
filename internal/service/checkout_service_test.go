package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newCheckoutFixture(products ...model.Product) (*CheckoutService, *fakeGateway) {
	gateway := newFakeGateway()
	svc := NewCheckoutService(newFakeProductRepo(products...), gateway, "ARS", CheckoutURLs{
		Success: "https://store.test/success",
		Failure: "https://store.test/failure",
		Pending: "https://store.test/pending",
	})
	return svc, gateway
}

func TestCreatePreference(t *testing.T) {
	svc, gateway := newCheckoutFixture(
		model.Product{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(100), Stock: 10, IsActive: true},
		model.Product{ID: 2, Name: "Mouse", Price: decimal.NewFromFloat(49.90), Stock: 5, IsActive: true},
	)

	initPoint, err := svc.CreatePreference(context.Background(), 42, []model.CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "https://gateway.test/init/pref-1", initPoint)

	req := gateway.lastRequest
	require.NotNil(t, req)
	require.Len(t, req.Items, 2)
	// 價格與品名取DB當下資料
	require.Equal(t, "Keyboard", req.Items[0].Title)
	require.True(t, decimal.NewFromInt(100).Equal(req.Items[0].UnitPrice))
	require.Equal(t, "ARS", req.Items[0].CurrencyID)
	// user correlation放在external reference
	require.Equal(t, strconv.Itoa(42), req.ExternalReference)
	require.Equal(t, "https://store.test/success", req.BackURLs.Success)
}

func TestCreatePreference_EmptyCart(t *testing.T) {
	svc, gateway := newCheckoutFixture()

	_, err := svc.CreatePreference(context.Background(), 42, nil)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
	require.Nil(t, gateway.lastRequest)
}

func TestCreatePreference_InvalidQuantity(t *testing.T) {
	svc, gateway := newCheckoutFixture(
		model.Product{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(100), Stock: 10, IsActive: true},
	)

	_, err := svc.CreatePreference(context.Background(), 42, []model.CartItem{
		{ProductID: 1, Quantity: 0},
	})
	require.Equal(t, er.InvalidArgumentCode, er.CodeOf(err))
	require.Nil(t, gateway.lastRequest)
}

func TestCreatePreference_ProductNotFound(t *testing.T) {
	svc, gateway := newCheckoutFixture(
		model.Product{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(100), Stock: 10, IsActive: true},
	)

	_, err := svc.CreatePreference(context.Background(), 42, []model.CartItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	})
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
	require.Nil(t, gateway.lastRequest)
}

// 任一行庫存不足, 整車擋下, gateway不能被呼叫
func TestCreatePreference_InsufficientStockBlocksWholeCart(t *testing.T) {
	svc, gateway := newCheckoutFixture(
		model.Product{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(100), Stock: 10, IsActive: true},
		model.Product{ID: 2, Name: "Mouse", Price: decimal.NewFromInt(50), Stock: 1, IsActive: true},
	)

	_, err := svc.CreatePreference(context.Background(), 42, []model.CartItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 3},
	})
	require.Equal(t, er.ConflictCode, er.CodeOf(err))
	require.Contains(t, err.Error(), "insufficient stock")
	require.Nil(t, gateway.lastRequest)
}

func TestCreatePreference_GatewayDown(t *testing.T) {
	svc, gateway := newCheckoutFixture(
		model.Product{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(100), Stock: 10, IsActive: true},
	)
	gateway.preferenceErr = errors.New("connection refused")

	_, err := svc.CreatePreference(context.Background(), 42, []model.CartItem{
		{ProductID: 1, Quantity: 1},
	})
	require.Equal(t, er.UpstreamErrorCode, er.CodeOf(err))
}
