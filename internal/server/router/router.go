package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mherrera/rodeo/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(api *handlers.API, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/stock", api.Stock)
		v1.GET("/stock/unassigned", api.Unassigned)
		v1.GET("/stock/summary", api.Summary)

		v1.POST("/animals", api.CreateAnimal)
		v1.GET("/animals/:id", api.GetAnimal)
		v1.PUT("/animals/:id", api.UpdateAnimal)
		v1.POST("/animals/:id/sell", api.SellAnimal)
		v1.GET("/animals/:id/lot", api.CurrentLot)
		v1.GET("/animals/:id/weighings", api.WeighingHistory)

		v1.GET("/lots", api.Lots)
		v1.POST("/lots", api.CreateLot)
		v1.PUT("/lots/:id", api.UpdateLot)
		v1.DELETE("/lots/:id", api.DeleteLot)
		v1.POST("/lots/:id/assign", api.AssignToLot)
		v1.POST("/assignments/release", api.Release)

		v1.GET("/weighings", api.Weighings)
		v1.POST("/weighings", api.AddWeighing)

		v1.GET("/health-events", api.HealthEvents)
		v1.POST("/health-events", api.AddHealthEvent)

		v1.GET("/suppliers", api.Suppliers)
		v1.POST("/suppliers", api.CreateSupplier)
		v1.DELETE("/suppliers/:id", api.DeleteSupplier)

		v1.GET("/carriers", api.Carriers)
		v1.POST("/carriers", api.CreateCarrier)
		v1.DELETE("/carriers/:id", api.DeleteCarrier)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
