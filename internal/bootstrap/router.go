package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/devstudy/devstudy-backend/config"
	aggregationhttp "github.com/devstudy/devstudy-backend/internal/aggregation/http"
	httpapi "github.com/devstudy/devstudy-backend/internal/api/http"
	"github.com/devstudy/devstudy-backend/internal/api/http/middleware"
	authhttp "github.com/devstudy/devstudy-backend/internal/auth/http"
	authmiddleware "github.com/devstudy/devstudy-backend/internal/auth/middleware"
	contenthttp "github.com/devstudy/devstudy-backend/internal/content/http"
	groupshttp "github.com/devstudy/devstudy-backend/internal/groups/http"
	profileshttp "github.com/devstudy/devstudy-backend/internal/profiles/http"
	sharinghttp "github.com/devstudy/devstudy-backend/internal/sharing/http"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Services    *Services
	Health      map[string]httpapi.PingFunc
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config
	svc := dep.Services

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-Confirm"},
		ExposeHeaders:    []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, cfg.App.Version, dep.Health)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	protected := api.Group("")
	protected.Use(authmiddleware.FirebaseAuthMiddleware(svc.Verifier))

	authhttp.New(svc.Auth).Register(api, protected)

	searchLimiter := middleware.NewUserRateLimiter(cfg.Limits.SearchPerMinute)
	profileshttp.New(svc.Profiles).Register(protected, searchLimiter.Middleware())

	contenthttp.New(svc.Content).Register(protected)
	sharinghttp.New(svc.Shares, svc.Profiles).Register(protected)
	groupshttp.New(svc.Groups, svc.Profiles).Register(protected)
	aggregationhttp.New(svc.Aggregation, svc.Profiles).Register(protected)

	return r
}
