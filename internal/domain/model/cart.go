package model

// CartItem 購物車內一筆商品需求, 價格一律以server端為準, 不收client價格
type CartItem struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}
