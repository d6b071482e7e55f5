// Package router sets up the routes of the preview server.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/internal/api/handler"
	"github.com/verustcode/doctest/internal/api/middleware"
	"github.com/verustcode/doctest/internal/config"
)

// Setup configures middleware and all routes
func Setup(r *gin.Engine, cfg *config.Config, store handler.ReportStore) {
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(&middleware.LoggerConfig{
		AccessLog: cfg.Logging.AccessLog,
	}))
	r.Use(middleware.ErrorHandler(cfg.Server.Debug))
	r.Use(middleware.NoCache())

	r.Use(otelgin.Middleware(consts.ServiceName))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": consts.Version})
	})

	reportHandler := handler.NewReportHandler(store)

	r.GET("/", reportHandler.ServeIndex)
	r.GET("/reports/:file", reportHandler.ServeFile)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/reports", reportHandler.ListReports)
		v1.GET("/reports/:name", reportHandler.GetReport)
	}
}
