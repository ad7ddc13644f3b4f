package http

import (
	"context"

	"github.com/devstudy/devstudy-backend/internal/aggregation/service"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
)

type ProfileReader interface {
	MustGet(ctx context.Context, userID string) (profiledomain.Profile, error)
}

type Handler struct {
	agg      *service.AggregationService
	profiles ProfileReader
}

func New(agg *service.AggregationService, profiles ProfileReader) *Handler {
	return &Handler{agg: agg, profiles: profiles}
}

type shareCourseReq struct {
	CourseID string `json:"courseId" binding:"required"`
}
