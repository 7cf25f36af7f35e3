package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"toy-store/controllers"
	"toy-store/middleware"
)

type Handlers struct {
	Auth       *controllers.AuthController
	Carts      *controllers.CartController
	Promos     *controllers.PromoController
	Products   *controllers.ProductController
	Orders     *controllers.OrderController
	Checkout   *controllers.TransactionController
	Revalidate *controllers.RevalidateController
}

type Options struct {
	JWTSecret        string
	Session          middleware.SessionConfig
	RevalidateSecret string
}

// SetupRoutes registers the API. The PayU callback and /revalidate sit on
// the root router so the session refresh middleware never runs for them.
func SetupRoutes(router *gin.Engine, h *Handlers, opts Options) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	router.POST("/payment/payu/callback", h.Checkout.PayUCallback)
	router.POST("/revalidate", middleware.RevalidateSecret(opts.RevalidateSecret), h.Revalidate.Revalidate)

	store := router.Group("/")
	store.Use(middleware.SessionRefresh(opts.Session), middleware.OptionalAuth(opts.JWTSecret))
	{
		store.POST("/auth/register", h.Auth.Register)
		store.POST("/auth/login", h.Auth.Login)
		store.POST("/auth/logout", h.Auth.Logout)

		store.GET("/store/products", h.Products.GetAllProducts)
		store.GET("/store/products/:id", h.Products.GetProductByID)
		store.GET("/store/payment-methods", h.Checkout.ListPaymentMethods)

		store.GET("/store/cart", h.Carts.GetCart)
		store.POST("/store/carts", h.Carts.CreateCart)
		store.GET("/store/carts/:id", h.Carts.GetCart)
		store.POST("/store/carts/:id", h.Carts.UpdateCart)
		store.POST("/store/carts/:id/line-items", h.Carts.AddLineItem)
		store.PATCH("/store/carts/:id/line-items/:line_id", h.Carts.UpdateLineItem)
		store.DELETE("/store/carts/:id/line-items/:line_id", h.Carts.DeleteLineItem)
		store.POST("/store/carts/:id/line-items/:line_id/gift-wrap", h.Carts.AddGiftWrap)
		store.GET("/store/carts/:id/shipping-options", h.Carts.ShippingOptions)
		store.POST("/store/carts/:id/shipping-methods", h.Carts.SelectShipping)
		store.POST("/store/carts/:id/payment-sessions", h.Carts.SelectPaymentSession)
		store.POST("/store/carts/:id/discounts", h.Promos.ApplyDiscount)
		store.DELETE("/store/carts/:id/discounts", h.Promos.RemoveDiscount)
		store.POST("/store/carts/:id/gift-cards", h.Promos.ApplyGiftCard)
		store.POST("/store/carts/:id/complete", h.Checkout.CompleteCart)
	}

	account := store.Group("/")
	account.Use(middleware.AuthMiddleware(opts.JWTSecret, ""))
	{
		account.GET("/auth/profile", h.Auth.GetProfile)
		account.GET("/store/orders", h.Orders.GetOrders)
		account.GET("/store/orders/:id", h.Orders.GetOrderByID)
	}

	checkout := store.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(opts.JWTSecret, middleware.LoginRedirect))
	{
		checkout.POST("/payu", h.Checkout.StartPayU)
	}
}
