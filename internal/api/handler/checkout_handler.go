package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.ICheckoutService
}

func NewCheckoutHandler(checkoutService service.ICheckoutService) *CheckoutHandler {
	if checkoutService == nil {
		panic("checkoutService cannot be nil")
	}
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// CreatePreference 把購物車換成gateway的付款連結
func (c *CheckoutHandler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	payload, err := payloadFromRequest(r)
	if err != nil {
		api.ErrorJSON(w, int(er.UnauthenticatedCode), err, er.ErrStrMap[er.UnauthenticatedCode])
		return
	}

	var reqDTO dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	items := make([]model.CartItem, 0, len(reqDTO.Items))
	for _, item := range reqDTO.Items {
		items = append(items, model.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	initPoint, err := c.checkoutService.CreatePreference(r.Context(), payload.UserID, items)
	if err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, dto.CheckoutResponseDTO{InitPoint: initPoint})
}
