package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/shares", h.create)
	rg.GET("/shares/inbox", h.inbox)
	rg.GET("/shares/unread", h.unread)
	rg.POST("/shares/:id/viewed", h.markViewed)
	rg.GET("/shares/stream", h.stream)
}
