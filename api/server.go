package api

import "github.com/RoyceAzure/lab/storefront/internal/api/handler"

type Server struct {
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	CheckoutHandler *handler.CheckoutHandler
	OrderHandler    *handler.OrderHandler
}

func NewServer(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
) *Server {
	return &Server{
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		ProductHandler:  productHandler,
		CategoryHandler: categoryHandler,
		CheckoutHandler: checkoutHandler,
		OrderHandler:    orderHandler,
	}
}
