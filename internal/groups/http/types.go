package http

import (
	"context"

	"github.com/devstudy/devstudy-backend/internal/groups/service"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
)

// ProfileReader resolves user ids to directory profiles.
type ProfileReader interface {
	MustGet(ctx context.Context, userID string) (profiledomain.Profile, error)
}

type Handler struct {
	groups   *service.GroupService
	profiles ProfileReader
}

func New(groups *service.GroupService, profiles ProfileReader) *Handler {
	return &Handler{groups: groups, profiles: profiles}
}

type createGroupReq struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

type joinReq struct {
	Code string `json:"code" binding:"required"`
}

type addMemberReq struct {
	UserID string `json:"userId" binding:"required"`
}
