package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/content/:collection", h.list)
	rg.POST("/content/:collection", h.create)
	rg.GET("/content/:collection/:id", h.get)
	rg.DELETE("/content/:collection/:id", h.delete)
}
