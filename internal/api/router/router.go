package router

import (
	"github.com/RoyceAzure/lab/storefront/api"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, tokenMaker token.Maker, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(m.AuthPayloadMiddleware(tokenMaker))
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware(logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", server.AuthHandler.Register)
			r.Post("/login", server.AuthHandler.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(m.AuthMiddleware)
				r.Patch("/me", server.UserHandler.UpdateDetails)
				r.Patch("/me/password", server.UserHandler.UpdatePassword)
			})
			r.Group(func(r chi.Router) {
				r.Use(m.AuthMiddleware, m.AdminMiddleware)
				r.Get("/", server.UserHandler.GetAllUsers)
				r.Delete("/{id}", server.UserHandler.DeactivateUser)
			})
		})

		r.Route("/products", func(r chi.Router) {
			// 前台瀏覽不用登入
			r.Get("/", server.ProductHandler.GetProducts)
			r.Get("/{id}", server.ProductHandler.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(m.AuthMiddleware, m.AdminMiddleware)
				r.Get("/admin/all", server.ProductHandler.GetAllProducts)
				r.Post("/", server.ProductHandler.CreateProduct)
				r.Put("/{id}", server.ProductHandler.UpdateProduct)
				r.Put("/{id}/specs", server.ProductHandler.UpdateProductSpecs)
				r.Delete("/{id}", server.ProductHandler.ArchiveProduct)
				r.Delete("/{id}/hard", server.ProductHandler.HardDeleteProduct)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", server.CategoryHandler.GetCategories)

			r.Group(func(r chi.Router) {
				r.Use(m.AuthMiddleware, m.AdminMiddleware)
				r.Post("/", server.CategoryHandler.CreateCategory)
				r.Put("/{id}", server.CategoryHandler.UpdateCategory)
				r.Delete("/{id}", server.CategoryHandler.DeleteCategory)
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(m.AuthMiddleware)
			r.Post("/create_preference", server.CheckoutHandler.CreatePreference)
		})

		r.Route("/orders", func(r chi.Router) {
			// gateway callback, 無認證, 信任邊界在service層的回查
			r.Post("/webhook/mercadopago", server.OrderHandler.PaymentWebhook)

			r.Group(func(r chi.Router) {
				r.Use(m.AuthMiddleware)
				r.Get("/my-orders", server.OrderHandler.GetMyOrders)
				r.Get("/{id}", server.OrderHandler.GetOrder)
			})

			r.Group(func(r chi.Router) {
				r.Use(m.AuthMiddleware, m.AdminMiddleware)
				r.Get("/", server.OrderHandler.GetAllOrders)
				r.Post("/", server.OrderHandler.CreateManualOrder)
				r.Put("/{id}/status", server.OrderHandler.UpdateOrderStatus)
			})
		})
	})

	return r
}
