package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/assetops/entitlements/config"
	"github.com/assetops/entitlements/controller"
	"github.com/assetops/entitlements/dell"
	logger "github.com/assetops/entitlements/logging"
	"github.com/assetops/entitlements/normalize"
	"github.com/assetops/entitlements/router"
	"github.com/assetops/entitlements/service"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize the entitlement client
	dellClient, err := dell.NewClient(dell.Config{
		AuthURL:      config.GetString("dell.authURL"),
		APIURL:       config.GetString("dell.apiURL"),
		ClientID:     config.GetString("dell.clientID"),
		ClientSecret: config.GetString("dell.clientSecret"),
		CacheTTL:     config.GetDuration("cache.ttl"),
		Timeout:      config.GetDuration("http.timeout"),
		Logger:       logger.Log,
	})
	if err != nil {
		logger.Fatal("Failed to initialize entitlement client", zap.Error(err))
	}

	// Initialize services and controllers
	entitlementService := service.NewEntitlementService(dellClient, normalize.New(logger.Log))
	controllers := controller.InitializeControllers(entitlementService)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
