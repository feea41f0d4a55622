// router/router.go

package router

import (
	"time"

	"github.com/assetops/entitlements/controller"
	"github.com/assetops/entitlements/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api")

	controllers.Entitlement.RegisterRoutes(api)

	return router
}
