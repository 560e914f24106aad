package server

import (
	handler "agribid/services/market/handler"

	"github.com/gin-gonic/gin"
)

// Services bundles the handlers' dependencies
type Services struct {
	Auction  handler.AuctionServiceInterface
	Session  handler.SessionServiceInterface
	Checkout handler.CheckoutServiceInterface
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svcs Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(svcs.Auction, svcs.Session)
	sessionHandler := handler.NewSessionHandler(svcs.Session)
	checkoutHandler := handler.NewCheckoutHandler(svcs.Checkout, svcs.Session)

	auth := router.Group("/auth")
	{
		auth.POST("/register", sessionHandler.RegisterHandler)
		auth.POST("/login", sessionHandler.LoginHandler)
		auth.POST("/logout", sessionHandler.LogoutHandler)
		auth.GET("/me", sessionHandler.CurrentUserHandler)
	}

	products := router.Group("/products")
	{
		products.GET("", auctionHandler.ListProductsHandler)
		products.POST("", auctionHandler.AddProductHandler)
		products.GET("/:product_id", auctionHandler.GetProductHandler)
		products.POST("/:product_id/bids", auctionHandler.PlaceBidHandler)
		products.GET("/:product_id/bids", auctionHandler.GetBidsByProductHandler)
		products.GET("/:product_id/highest", auctionHandler.GetHighestBidHandler)
		products.GET("/:product_id/winning", auctionHandler.GetWinningBidHandler)
		products.POST("/:product_id/checkout", checkoutHandler.BeginCheckoutHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/bids", auctionHandler.GetUserBidsHandler)
	}

	checkouts := router.Group("/checkout")
	{
		checkouts.GET("/:checkout_id", checkoutHandler.GetCheckoutHandler)
		checkouts.POST("/:checkout_id/shipping", checkoutHandler.SubmitShippingHandler)
		checkouts.POST("/:checkout_id/payment", checkoutHandler.SubmitPaymentHandler)
		checkouts.POST("/:checkout_id/back", checkoutHandler.BackHandler)
		checkouts.POST("/:checkout_id/confirm", checkoutHandler.ConfirmOrderHandler)
	}

	return router
}
