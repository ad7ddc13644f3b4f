package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/groups", h.list)
	rg.POST("/groups", h.create)
	rg.POST("/groups/join", h.join)
	rg.GET("/groups/:id", h.get)
	rg.DELETE("/groups/:id", h.delete)
	rg.POST("/groups/:id/members", h.addMember)
	rg.POST("/groups/:id/leave", h.leave)
	rg.GET("/groups/:id/stream", h.stream)
}
