package http

import "github.com/devstudy/devstudy-backend/internal/content/service"

type Handler struct {
	content *service.ContentService
}

func New(content *service.ContentService) *Handler {
	return &Handler{content: content}
}

type createTopicReq struct {
	CourseID string `json:"courseId"`
	Name     string `json:"name"`
}
