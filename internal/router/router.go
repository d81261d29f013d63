package router

import (
	"strings"

	"github.com/ledgerline/internal/cache"
	"github.com/ledgerline/internal/http/handlers"
	"github.com/ledgerline/internal/http/response"
	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/provider"

	"github.com/gin-gonic/gin"
)

// New builds the HTTP engine with all routes wired.
func New(container *provider.Container) *gin.Engine {
	cfg := container.Config
	if strings.EqualFold(strings.TrimSpace(cfg.Server.Mode), "release") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestIDMiddleware())
	engine.Use(LoggerMiddleware(logger.Z()))
	engine.Use(CORSMiddleware(cfg.CORS))

	handler := handlers.New(container)

	engine.GET("/up", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	// Transport-layer limit on top of the service-level send counter.
	sendLimit := RateLimitMiddleware(cache.Client(), RateLimitRule{
		Prefix:        "rl:verification_send",
		WindowSeconds: cfg.Security.SendRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SendRateLimit.MaxRequests,
	}, KeyByIPAndJSONField("phone_number"))
	loginLimit := RateLimitMiddleware(cache.Client(), RateLimitRule{
		Prefix:        "rl:login",
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
	}, KeyByIPAndJSONField("email"))
	resetLimit := RateLimitMiddleware(cache.Client(), RateLimitRule{
		Prefix:        "rl:password_reset",
		WindowSeconds: cfg.Security.SendRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SendRateLimit.MaxRequests,
	}, KeyByIPAndJSONField("email"))

	api.POST("/verifications", sendLimit, handler.SendVerification)
	api.PUT("/verifications", handler.VerifyCode)
	api.GET("/captcha/image", handler.CaptchaImage)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", loginLimit, handler.Login)
		auth.POST("/password/reset", resetLimit, handler.RequestPasswordReset)
		auth.PUT("/password/reset", handler.ResetPassword)
	}

	authed := api.Group("")
	authed.Use(AuthMiddleware(container.AuthService))
	{
		authed.GET("/me", handler.Me)
		authed.DELETE("/auth/logout", handler.Logout)

		authed.GET("/clients", handler.ListClients)
		authed.POST("/clients", handler.CreateClient)
		authed.GET("/clients/:id", handler.GetClient)
		authed.PUT("/clients/:id", handler.UpdateClient)
		authed.DELETE("/clients/:id", handler.DeleteClient)

		authed.GET("/invoices", handler.ListInvoices)
		authed.POST("/invoices", handler.CreateInvoice)
		authed.GET("/invoices/:id", handler.GetInvoice)
		authed.PUT("/invoices/:id", handler.UpdateInvoice)
		authed.DELETE("/invoices/:id", handler.DeleteInvoice)
		authed.POST("/invoices/:id/status", handler.UpdateInvoiceStatus)
		authed.GET("/invoices/:id/pdf", handler.InvoicePDF)

		authed.POST("/invoices/:id/items", handler.CreateInvoiceItem)
		authed.PUT("/invoices/:id/items/:item_id", handler.UpdateInvoiceItem)
		authed.DELETE("/invoices/:id/items/:item_id", handler.DeleteInvoiceItem)

		authed.GET("/notifications", handler.ListNotifications)
	}

	engine.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	return engine
}
