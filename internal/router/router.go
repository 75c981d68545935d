package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doofx0071/gym-bro-sub000/internal/api"
	"github.com/doofx0071/gym-bro-sub000/internal/middleware"
	"github.com/doofx0071/gym-bro-sub000/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	profileHandler *api.ProfileHandler,
	planHandler *api.PlanHandler,
	authService service.IAuthService,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Auth routes
	authHandler.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		profileHandler.RegisterRoutes(protected)
		planHandler.RegisterRoutes(protected)
	}

	return router
}
