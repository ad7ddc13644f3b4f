package http

import (
	"github.com/devstudy/devstudy-backend/internal/sharing/service"
)

type Handler struct {
	shares   *service.ShareService
	profiles service.ProfileReader
}

func New(shares *service.ShareService, profiles service.ProfileReader) *Handler {
	return &Handler{shares: shares, profiles: profiles}
}

type shareReq struct {
	QuestionID  string `json:"questionId" binding:"required"`
	RecipientID string `json:"recipientId" binding:"required"`
}
