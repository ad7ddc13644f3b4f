package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/groups/:id/courses", h.list)
	rg.POST("/groups/:id/courses", h.share)
	rg.GET("/groups/:id/courses/:shareId/problems", h.problems)
}
