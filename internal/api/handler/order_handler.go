package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/rs/zerolog"
)

type OrderHandler struct {
	orderService   service.IOrderService
	paymentService service.IPaymentService
	logger         *zerolog.Logger
}

func NewOrderHandler(
	orderService service.IOrderService,
	paymentService service.IPaymentService,
	logger *zerolog.Logger,
) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	if paymentService == nil {
		panic("paymentService cannot be nil")
	}
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreateManualOrder 後台手動建單, 走與webhook相同的庫存transaction
func (o *OrderHandler) CreateManualOrder(w http.ResponseWriter, r *http.Request) {
	var orderDTO dto.ManualOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&orderDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	items := make([]service.ManualOrderLine, 0, len(orderDTO.Items))
	for _, line := range orderDTO.Items {
		items = append(items, service.ManualOrderLine{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		})
	}

	order, err := o.orderService.CreateManualOrder(r.Context(), &service.ManualOrderParams{
		UserID:           orderDTO.UserID,
		Status:           orderDTO.Status,
		TotalAmount:      orderDTO.TotalAmount,
		PaymentGatewayID: orderDTO.PaymentGatewayID,
		Items:            items,
	})
	if err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertOrderModelToDTO(order))
}

func (o *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := o.orderService.GetAllOrders(r.Context())
	if err != nil {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		return
	}

	orderDTOs := make([]dto.OrderWithUserDTO, 0, len(orders))
	for i := range orders {
		orderDTOs = append(orderDTOs, convertOrderWithUserToDTO(&orders[i]))
	}
	api.SuccessJSON(w, orderDTOs)
}

// GetMyOrders 只回token本人的訂單
func (o *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	payload, err := payloadFromRequest(r)
	if err != nil {
		api.ErrorJSON(w, int(er.UnauthenticatedCode), err, er.ErrStrMap[er.UnauthenticatedCode])
		return
	}

	orders, err := o.orderService.GetOrdersByUserID(r.Context(), payload.UserID)
	if err != nil {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		return
	}

	orderDTOs := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		orderDTOs = append(orderDTOs, convertOrderModelToDTO(&orders[i]))
	}
	api.SuccessJSON(w, orderDTOs)
}

func (o *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	payload, err := payloadFromRequest(r)
	if err != nil {
		api.ErrorJSON(w, int(er.UnauthenticatedCode), err, er.ErrStrMap[er.UnauthenticatedCode])
		return
	}

	orderID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	order, err := o.orderService.GetOrder(r.Context(), orderID, payload.UserID, payload.Role)
	if err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertOrderModelToDTO(order))
}

func (o *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	var statusDTO dto.UpdateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&statusDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	order, err := o.orderService.UpdateOrderStatus(r.Context(), orderID, statusDTO.Status)
	if err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertOrderModelToDTO(order))
}

/*
PaymentWebhook gateway的異步通知入口。

回應契約:
  - 看不懂的body、非payment事件、缺data.id -> 200直接ack, gateway不需要重送
  - 結構性錯誤的approved payment (400類AppError) -> 400, 重送也救不回來
  - 內部故障 -> 500, gateway會重送, 冪等檢查保證重送安全
*/
func (o *OrderHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestIDFromContext(r.Context())

	var notification dto.WebhookNotificationDTO
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		o.logger.Warn().
			Str("request_id", requestID).
			Err(err).
			Msg("webhook body is not json, acking")
		api.SuccessJSON(w, map[string]string{"status": "ignored"})
		return
	}

	if notification.Type != "payment" || notification.Data.ID == "" {
		api.SuccessJSON(w, map[string]string{"status": "ignored"})
		return
	}

	paymentID := string(notification.Data.ID)
	if err := o.paymentService.ProcessPaymentNotification(r.Context(), paymentID); err != nil {
		if appErr, ok := err.(*er.AppError); ok && appErr.Code == er.BadRequestCode {
			o.logger.Warn().
				Str("request_id", requestID).
				Str("payment_id", paymentID).
				Err(appErr).
				Msg("webhook payment rejected")
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
			return
		}
		o.logger.Error().
			Str("request_id", requestID).
			Str("payment_id", paymentID).
			Err(err).
			Msg("webhook processing failed")
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		return
	}

	api.SuccessJSON(w, map[string]string{"status": "ok"})
}

func convertOrderModelToDTO(order *model.Order) dto.OrderDTO {
	itemDTOs := make([]dto.OrderItemDTO, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		itemDTOs = append(itemDTOs, dto.OrderItemDTO{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return dto.OrderDTO{
		ID:               order.ID,
		UserID:           order.UserID,
		TotalAmount:      order.TotalAmount,
		Status:           order.Status,
		PaymentGatewayID: order.PaymentGatewayID,
		Items:            itemDTOs,
		CreatedAt:        order.CreatedAt,
	}
}

func convertOrderWithUserToDTO(order *db.OrderWithUser) dto.OrderWithUserDTO {
	return dto.OrderWithUserDTO{
		OrderDTO:  convertOrderModelToDTO(&order.Order),
		FirstName: order.FirstName,
		LastName:  order.LastName,
		Email:     order.Email,
	}
}
