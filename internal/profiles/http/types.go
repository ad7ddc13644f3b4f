package http

import "github.com/devstudy/devstudy-backend/internal/profiles/service"

type Handler struct {
	profiles *service.ProfileService
}

func New(profiles *service.ProfileService) *Handler {
	return &Handler{profiles: profiles}
}

type createProfileReq struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
