package routes

import (
	"time"

	"shallbuy/api/handler"
	"shallbuy/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo       *echo.Echo
	Users      *handler.UserHandler
	Billing    *handler.BillingHandler
	CreateRate *middleware.RateLimiter
	LoginRate  *middleware.RateLimiter
}

func NewRouter(e *echo.Echo, users *handler.UserHandler, billing *handler.BillingHandler) *Router {
	return &Router{
		Echo:       e,
		Users:      users,
		Billing:    billing,
		CreateRate: middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:  middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	users := r.Echo.Group("/users")
	users.POST("/create", r.Users.Create, r.CreateRate.Middleware())
	users.POST("/login", r.Users.Login, r.LoginRate.Middleware())
	users.PATCH("/verify-email", r.Users.VerifyEmail)
	users.GET("/validate/:username", r.Users.ValidateUsername)
	users.GET("/:id", r.Users.GetUser)
	users.DELETE("/delete/:id", r.Users.Delete)

	billing := r.Echo.Group("/billing")
	billing.POST("/checkout", r.Billing.Checkout)
	billing.GET("/session/:id", r.Billing.Session)
	billing.POST("/webhook", r.Billing.Webhook)
}
