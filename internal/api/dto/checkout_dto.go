package dto

type CartItemDTO struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CheckoutRequestDTO struct {
	Items []CartItemDTO `json:"items"`
}

type CheckoutResponseDTO struct {
	InitPoint string `json:"init_point"`
}
