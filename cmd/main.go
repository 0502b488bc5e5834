package main

import (
	"net/http"
	"os"
	"time"

	"shallbuy/api/handler"
	"shallbuy/api/routes"
	"shallbuy/config"
	"shallbuy/internal/repository"
	"shallbuy/internal/service"
	"shallbuy/internal/utils"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectDB()
	validate := handler.NewValidator()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}
	manager := utils.JWTManager{
		Secret:   jwtSecret,
		Issuer:   os.Getenv("JWT_ISSUER"),
		TokenTTL: 24 * time.Hour,
	}
	tokenIssuer := service.JWTTokenIssuer{Manager: &manager}

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	billingGateway := service.NewStripeGateway(os.Getenv("STRIPE_SECRET_KEY"))
	emailSender := service.NewResendEmailSender(os.Getenv("RESEND_API_KEY"), os.Getenv("ADMIN_MAILID"))
	passwordHasher := service.BcryptPasswordHasher{}

	userService := service.NewUserService(
		userRepo,
		activityRepo,
		billingGateway,
		emailSender,
		tokenIssuer,
		passwordHasher,
		service.RealClock{},
		logger,
		service.UserConfig{
			VerificationTTL: 20 * time.Minute,
			FrontendBaseURL: os.Getenv("FRONTEND_URL"),
		},
	)
	billingService := service.NewBillingService(
		userRepo,
		subscriptionRepo,
		billingGateway,
		logger,
		service.BillingConfig{
			SuccessURL: envOrDefault("CHECKOUT_SUCCESS_URL", "http://localhost:8282/subscription/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:  envOrDefault("CHECKOUT_CANCEL_URL", "http://localhost:3000/cancel"),
			Currency:   envOrDefault("CHECKOUT_CURRENCY", "inr"),
		},
	)

	userHandler := handler.NewUserHandler(userService, validate)
	billingHandler := handler.NewBillingHandler(billingService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	router := routes.NewRouter(app, userHandler, billingHandler)
	router.RegisterRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func envOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
