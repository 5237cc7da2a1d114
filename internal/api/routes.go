package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/config"
	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/middleware"
	"summercamp-backend-go/internal/models"
)

// Services bundles the core services the routes are wired to.
type Services struct {
	Tokens      core.TokenService
	Users       core.UserService
	Classes     core.ClassService
	Instructors core.InstructorService
	Carts       core.CartService
	Payments    core.PaymentService
}

// RouterOptions carries the optional infrastructure around the routes.
type RouterOptions struct {
	// Limiter throttles token and payment-intent requests. Nil disables it.
	Limiter middleware.Limiter
	// Registry receives the HTTP metrics and backs /metrics. A fresh registry
	// is created when nil.
	Registry *prometheus.Registry
	// StoreDriver is reported by /health.
	StoreDriver string
}

// NewRouter builds the gin engine with the global middleware chain and all routes.
func NewRouter(appConfig *config.Config, svc Services, opts RouterOptions, logger *zap.Logger) *gin.Engine {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics := middleware.NewMetrics(opts.Registry)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(appConfig))
	router.Use(metrics.Handler())

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	SetupRoutes(router, svc, opts, logger)
	return router
}

// SetupRoutes registers every endpoint on router.
func SetupRoutes(router *gin.Engine, svc Services, opts RouterOptions, logger *zap.Logger) {
	authMW := middleware.NewAuthMiddleware(svc.Tokens, logger)
	verify := authMW.VerifyToken()
	admin := middleware.RequireRole(svc.Users, models.RoleAdmin, logger)
	instructor := middleware.RequireRole(svc.Users, models.RoleInstructor, logger)
	limit := middleware.RateLimit(opts.Limiter, logger)

	authHandler := NewAuthHandler(svc.Tokens, logger)
	userHandler := NewUserHandler(svc.Users, logger)
	classHandler := NewClassHandler(svc.Classes, logger)
	instructorHandler := NewInstructorHandler(svc.Instructors, logger)
	cartHandler := NewCartHandler(svc.Carts, logger)
	paymentHandler := NewPaymentHandler(svc.Payments, logger)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Summer Camp is running!")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "UP", Message: "Summer Camp backend is healthy.", Store: opts.StoreDriver})
	})

	router.POST("/jwt", limit, authHandler.IssueToken)

	users := router.Group("/users")
	{
		users.GET("", verify, admin, userHandler.ListUsers)
		users.GET("/:email", userHandler.GetUserByEmail)
		users.GET("/admin/:email", verify, userHandler.CheckRole(models.RoleAdmin, "admin"))
		users.GET("/instructor/:email", verify, userHandler.CheckRole(models.RoleInstructor, "instructor"))
		users.GET("/student/:email", verify, userHandler.CheckRole(models.RoleStudent, "student"))
		users.POST("", userHandler.CreateUser)
		users.PATCH("/admin/:id", verify, admin, userHandler.SetRole(models.RoleAdmin))
		users.PATCH("/instructor/:id", verify, admin, userHandler.SetRole(models.RoleInstructor))
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	instructors := router.Group("/instructors")
	{
		instructors.GET("", instructorHandler.ListInstructors)
		instructors.GET("/:id", instructorHandler.GetInstructor)
	}

	classes := router.Group("/class")
	{
		classes.GET("", classHandler.ListClasses)
		classes.GET("/top", classHandler.TopClasses)
		classes.GET("/enrolled", classHandler.EnrolledClasses)
		classes.GET("/:id", classHandler.GetClass)
		classes.POST("", verify, instructor, classHandler.CreateClass)
		classes.PATCH("/:id", verify, instructor, classHandler.UpdateClass)
		classes.PATCH("/approve/:id", verify, admin, classHandler.SetStatus(models.StatusApproved))
		classes.PATCH("/deny/:id", verify, admin, classHandler.SetStatus(models.StatusDenied))
		classes.PATCH("/feedback/:id", verify, admin, classHandler.SetFeedback)
	}

	carts := router.Group("/carts")
	{
		carts.GET("", verify, cartHandler.ListCart)
		carts.POST("", cartHandler.AddToCart)
		carts.DELETE("/:id", cartHandler.RemoveFromCart)
	}

	router.POST("/create-payment-intent", limit, verify, paymentHandler.CreatePaymentIntent)
	payments := router.Group("/payments")
	{
		payments.GET("", verify, paymentHandler.PaymentHistory)
		payments.GET("/count", paymentHandler.CountPayments)
		payments.POST("", verify, paymentHandler.RecordPayment)
	}

	logger.Info("API routes configured")
}
