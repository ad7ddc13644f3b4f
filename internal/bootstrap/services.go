package bootstrap

import (
	"github.com/redis/go-redis/v9"

	"github.com/devstudy/devstudy-backend/config"
	aggservice "github.com/devstudy/devstudy-backend/internal/aggregation/service"
	"github.com/devstudy/devstudy-backend/internal/auth"
	authservice "github.com/devstudy/devstudy-backend/internal/auth/service"
	contentrepo "github.com/devstudy/devstudy-backend/internal/content/repository"
	contentservice "github.com/devstudy/devstudy-backend/internal/content/service"
	grouprepo "github.com/devstudy/devstudy-backend/internal/groups/repository"
	groupservice "github.com/devstudy/devstudy-backend/internal/groups/service"
	profileservice "github.com/devstudy/devstudy-backend/internal/profiles/service"
	sharerepo "github.com/devstudy/devstudy-backend/internal/sharing/repository"
	shareservice "github.com/devstudy/devstudy-backend/internal/sharing/service"
)

// Services is every domain service the API exposes.
type Services struct {
	Profiles    *profileservice.ProfileService
	Content     *contentservice.ContentService
	Shares      *shareservice.ShareService
	Groups      *groupservice.GroupService
	Aggregation *aggservice.AggregationService
	Auth        *authservice.AuthService
	Verifier    auth.TokenVerifier
}

// ServiceDeps are the opened backends the services sit on.
type ServiceDeps struct {
	Profiles profileservice.Repository
	Content  contentrepo.Store
	Redis    *redis.Client
	Provider auth.Provider
}

func NewServices(cfg *config.Config, dep ServiceDeps) *Services {
	profiles := profileservice.NewProfileService(dep.Profiles)
	content := contentservice.NewContentService(dep.Content)

	shares := shareservice.NewShareService(
		sharerepo.NewShareRepository(dep.Redis, cfg.App.AppID), content, profiles)

	groupRepo := grouprepo.NewGroupRepository(dep.Redis, cfg.App.AppID)
	groups := groupservice.NewGroupService(groupRepo)

	sessions := auth.NewSessions()
	recordAuthEvents(sessions)

	return &Services{
		Profiles:    profiles,
		Content:     content,
		Shares:      shares,
		Groups:      groups,
		Aggregation: aggservice.NewAggregationService(groups, groupRepo, content, cfg.Limits.AggregationWorkers),
		Auth:        authservice.NewAuthService(dep.Provider, profiles, sessions),
		Verifier:    dep.Provider,
	}
}
