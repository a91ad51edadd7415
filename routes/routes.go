package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"savora/auth"
	"savora/banner"
	"savora/cart"
	"savora/config"
	"savora/food"
	"savora/middleware"
	"savora/order"
	"savora/orderfeed"
	"savora/promo"
	"savora/ratelim"
)

func AddStaticRoutes(router *httprouter.Router) {
	dir := config.Load().UploadDir
	router.ServeFiles("/images/*filepath", http.Dir(dir))
}

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/user/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/user/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/user/profile", middleware.Authenticate(auth.Profile))
}

func AddFoodRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/food/list", food.ListFood)
	router.POST("/api/food/add", rateLimiter.Limit(middleware.RequireAdmin(food.AddFood)))
	router.POST("/api/food/remove", middleware.RequireAdmin(food.RemoveFood))
	router.PUT("/api/food/update/:id", middleware.RequireAdmin(food.UpdateFood))
}

func AddCartRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.POST("/api/cart/add", middleware.Authenticate(cart.AddToCart))
	router.POST("/api/cart/remove", middleware.Authenticate(cart.RemoveFromCart))
	router.POST("/api/cart/get", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart/sync", middleware.Authenticate(cart.SyncCart))
	router.POST("/api/cart/clear", middleware.Authenticate(cart.ClearCart))
}

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *orderfeed.Hub) {
	router.POST("/api/order/place", rateLimiter.Limit(middleware.Authenticate(order.PlaceOrder)))
	router.POST("/api/order/verify", rateLimiter.Limit(order.VerifyOrder))
	router.POST("/api/order/webhook", order.Webhook)
	router.GET("/api/order/userorders", middleware.Authenticate(order.UserOrders))
	router.GET("/api/order/invoice/:id", middleware.Authenticate(order.InvoicePDF))
	router.GET("/api/order/list", middleware.RequireAdmin(order.ListOrders))
	router.POST("/api/order/status", middleware.RequireAdmin(order.UpdateStatus))
	router.GET("/ws/orders", middleware.RequireAdmin(hub.ServeWS))
}

func AddPromoRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/promo/validate", middleware.Authenticate(promo.ValidatePromo))
	router.POST("/api/promo/apply", rateLimiter.Limit(middleware.Authenticate(promo.ApplyPromo)))
	router.POST("/api/promo/create", middleware.RequireAdmin(promo.CreatePromo))
	router.GET("/api/promo/list", middleware.RequireAdmin(promo.ListPromos))
	router.DELETE("/api/promo/:code", middleware.RequireAdmin(promo.DeletePromo))
	router.PATCH("/api/promo/:code/toggle", middleware.RequireAdmin(promo.TogglePromoStatus))
}

func AddBannerRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.GET("/api/banner/active", banner.ActiveBanners)
	router.GET("/api/banner/list", middleware.RequireAdmin(banner.ListBanners))
	router.POST("/api/banner/create", middleware.RequireAdmin(banner.CreateBanner))
	router.PUT("/api/banner/:id", middleware.RequireAdmin(banner.UpdateBanner))
	router.PATCH("/api/banner/:id/toggle", middleware.RequireAdmin(banner.ToggleBannerStatus))
	router.DELETE("/api/banner/:id", middleware.RequireAdmin(banner.DeleteBanner))
}

// RoutesWrapper registers the whole HTTP surface.
func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *orderfeed.Hub) {
	AddStaticRoutes(router)
	AddAuthRoutes(router, rateLimiter)
	AddFoodRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter, hub)
	AddPromoRoutes(router, rateLimiter)
	AddBannerRoutes(router, rateLimiter)
}
