package http

import "github.com/gin-gonic/gin"

// Register mounts sign-up and sign-in on public and sign-out on protected.
func (h *Handler) Register(public, protected *gin.RouterGroup) {
	public.POST("/auth/signup", h.SignUp)
	public.POST("/auth/signin", h.SignIn)
	protected.POST("/auth/signout", h.SignOut)
}
