package constants

// for api auth
type ContextKey string

const (
	AuthorizationHeaderKey  ContextKey = "Authorization"
	AuthorizationTypeBearer ContextKey = "bearer"
	AuthorizationPayloadKey ContextKey = "authorization_payload"
)

type RequestID string

const (
	RequestIDKey RequestID = "request_id"
)

type TokenDurationHour int

const (
	AccessTokenDuration TokenDurationHour = 1
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleCustomer, RoleAdmin:
		return true
	default:
		return false
	}
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func IsValidOrderStatus(status string) bool {
	switch OrderStatus(status) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// mercado pago payment status that commits an order
const PaymentStatusApproved = "approved"
