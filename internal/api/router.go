package api

import (
	"savings_tracker/internal/cache"      // Auth throttling
	"savings_tracker/internal/middleware" // Custom package for middleware
	"savings_tracker/internal/repository" // Persistence

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Users          repository.Users   // User persistence
	Goals          repository.Goals   // Goal and deposit persistence
	AuthLimiter    *cache.Limiter     // Throttle for auth routes, nil disables it
	AllowedOrigins []string           // CORS allowed origins
	Logger         logrus.FieldLogger // Access and error log
}

// NewRouter builds the /api route tree
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := gin.New() // Gin router instance
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(middleware.DefaultCORSConfig(d.AllowedOrigins)),
	)

	apiGroup := r.Group("/api")
	apiGroup.GET("/health", HealthHandler()) // Health endpoint

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Use(middleware.RateLimit(d.AuthLimiter, log))
	authGroup.POST("/register", RegisterHandler(d.Users)) // Registration endpoint
	authGroup.POST("/login", LoginHandler(d.Users))       // Login endpoint

	// Goal routes
	apiGroup.GET("/goals", ListGoalsHandler(d.Goals))                         // List goals endpoint
	apiGroup.POST("/goals", CreateGoalHandler(d.Goals))                       // Create goal endpoint
	apiGroup.POST("/goals/:id/deposit", DepositHandler(d.Goals))              // Deposit endpoint
	apiGroup.GET("/goals/:id/transactions", ListTransactionsHandler(d.Goals)) // Transaction history endpoint

	return r
}
