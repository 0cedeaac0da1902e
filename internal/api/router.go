// Package api assembles the HTTP surface of the simulator.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invest-forecast/internal/api/handlers"
	"invest-forecast/internal/api/middleware"
	"invest-forecast/internal/runner"
)

type Options struct {
	Runner      *runner.Runner
	ProfileDir  string
	StaticDir   string
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.Use(middleware.Logger(l))
	router.Use(middleware.ErrorHandler(l))

	profiles := handlers.NewProfileHandler(opts.ProfileDir, l)
	simulate := handlers.NewSimulateHandler(opts.Runner, profiles, l)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulate.RunSimulation)
		api.POST("/simulate/direct", simulate.RunDirect)
		api.POST("/simulate/compare", simulate.Compare)
		api.GET("/simulate/:id/ledger", simulate.GetLedger)

		api.GET("/parameters", handlers.ListParameters)
		api.GET("/profiles", profiles.ListProfiles)
	}

	serveStatic(router, opts.StaticDir, l)
	return router
}

// serveStatic serves a single-page app from dir when it exists.
func serveStatic(router *gin.Engine, dir string, l *zap.Logger) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		l.Info("static directory not found, skipping static file serving", zap.String("dir", dir))
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	l.Info("serving static files", zap.String("dir", dir))
}
