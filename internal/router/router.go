package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/college-registration/internal/config"
	"github.com/stemsi/college-registration/internal/handler"
	"github.com/stemsi/college-registration/internal/middleware"
	"github.com/stemsi/college-registration/internal/response"
	"github.com/stemsi/college-registration/internal/view"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student *handler.StudentHandler
	System  *handler.SystemHandler
}

// SetupRouter configures the Gin engine: global middleware, templates and routes.
func SetupRouter(
	db *sql.DB,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-Error-Code"}
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(
		gin.Recovery(),
		response.RequestIDMiddleware(),
		middleware.RequestLogger(log),
		cors.New(corsConfig),
		middleware.Brotli(),
	)

	router.NoRoute(handlers.System.NotFound)
	router.NoMethod(handlers.System.MethodNotAllowed)

	// Embedded stylesheet, cached for a day.
	static := router.Group("/static")
	static.Use(middleware.CacheControl(24 * time.Hour))
	{
		static.StaticFS("/", http.FS(view.Static()))
	}

	// ─── Storage-backed routes (one connection per request) ────────────
	pages := router.Group("/")
	pages.Use(middleware.RequestConn(db, log))
	{
		pages.GET("/health", handlers.System.Health)
		pages.GET("/", middleware.NoStore(), handlers.Student.Index)
		pages.HEAD("/", middleware.NoStore(), handlers.Student.Index)
		pages.POST("/add_student", handlers.Student.AddStudent)
	}

	return router, nil
}
