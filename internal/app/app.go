// Package app assembles services, handlers and middleware into the HTTP router.
package app

import (
	"net/http"

	"restaurant_reviews/internal/config"
	"restaurant_reviews/internal/handler"
	"restaurant_reviews/internal/logging"
	"restaurant_reviews/internal/middleware"
	"restaurant_reviews/internal/service"
	"restaurant_reviews/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App holds everything a request needs. There are no package level
// connections; tests build an App over an in-memory database.
type App struct {
	cfg     *config.Config
	backend *Backend
	jwtUtil *utils.JWTUtil

	restaurants service.RestaurantService
	reviews     service.ReviewService
	auth        service.AuthService
}

// New wires the services over backend.
func New(cfg *config.Config, backend *Backend) *App {
	jwtUtil := utils.NewJWTUtil(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	return &App{
		cfg:         cfg,
		backend:     backend,
		jwtUtil:     jwtUtil,
		restaurants: service.NewRestaurantService(backend.Restaurants, backend.Reviews, cfg.DefaultImageURL()),
		reviews:     service.NewReviewService(backend.Reviews, backend.Restaurants),
		auth: service.NewAuthService(backend.Users, jwtUtil, service.AuthOptions{
			BcryptCost:        cfg.Auth.BcryptCost,
			InitialAdminEmail: cfg.Auth.InitialAdminEmail,
		}),
	}
}

// Router builds the gin engine.
func (a *App) Router() *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(a.cfg.Server.TrustedProxies); err != nil {
		logging.Error().Err(err).Strs("trusted_proxies", a.cfg.Server.TrustedProxies).
			Msg("Invalid trusted proxies, ignoring X-Forwarded-For")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(),
		handler.ErrorResponder(handler.ErrorOptions{ExposeStack: !a.cfg.IsProduction()}),
		middleware.SecurityHeaders(),
		middleware.CORS(a.cfg.CORS.Origin),
	)
	if !a.cfg.RateLimit.Disabled {
		router.Use(
			middleware.NewBurstGuard(a.cfg.RateLimit.BurstRPS, a.cfg.RateLimit.Burst).Handler(),
			middleware.RateLimit(a.cfg.RateLimit.Requests, a.cfg.RateLimit.Window),
		)
	}
	router.Use(middleware.Authenticate(a.jwtUtil, a.backend.Users, a.cfg.Auth.Scheme))

	router.Static("/assets", a.cfg.Server.PublicDir)
	router.GET("/health", a.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	handler.NewRestaurantHandler(a.restaurants).RegisterRestaurantRoutes(api)
	handler.NewReviewHandler(a.reviews).RegisterReviewRoutes(api)

	handler.NewAuthHandler(a.auth, a.cfg.Auth.Scheme).RegisterAuthRoutes(router.Group(""))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.Envelope{Success: false, Message: "Not Found - " + c.Request.URL.Path})
	})

	return router
}

func (a *App) health(c *gin.Context) {
	if err := a.backend.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
}
