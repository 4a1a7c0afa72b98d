package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ManualOrderLineDTO struct {
	ProductID       uint            `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type ManualOrderDTO struct {
	UserID           uint                 `json:"userId"`
	Status           string               `json:"status"`
	TotalAmount      decimal.Decimal      `json:"totalAmount"`
	PaymentGatewayID *string              `json:"paymentGatewayId"`
	Items            []ManualOrderLineDTO `json:"items"`
}

type OrderItemDTO struct {
	ProductID       uint            `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type OrderDTO struct {
	ID               uint            `json:"id"`
	UserID           uint            `json:"userId"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           string          `json:"status"`
	PaymentGatewayID *string         `json:"paymentGatewayId"`
	Items            []OrderItemDTO  `json:"items,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// OrderWithUserDTO 後台訂單列表, 帶客戶資訊
type OrderWithUserDTO struct {
	OrderDTO
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status"`
}

// WebhookID 容忍gateway把id送成數字或字串
type WebhookID string

func (w *WebhookID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*w = WebhookID(s)
	return nil
}

// WebhookNotificationDTO gateway通知body, 至少有type與data.id,
// 其餘vendor欄位(action等)一律容忍
type WebhookNotificationDTO struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID WebhookID `json:"id"`
	} `json:"data"`
}
