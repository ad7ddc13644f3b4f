package http

import "github.com/gin-gonic/gin"

// Register mounts the directory routes. searchLimit guards the search endpoint.
func (h *Handler) Register(rg *gin.RouterGroup, searchLimit gin.HandlerFunc) {
	rg.GET("/profile", h.GetProfile)
	rg.PUT("/profile", h.PutProfile)
	rg.GET("/profiles/search", searchLimit, h.Search)
}
