package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devstudy/devstudy-backend/internal/api/http/respond"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/auth/domain"
)

func (h *Handler) SignUp(c *gin.Context) {
	var req signUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	out, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	out, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SignOut revokes the caller's refresh tokens. The ID token stays valid until
// it expires.
func (h *Handler) SignOut(c *gin.Context) {
	user := domain.User{UID: auth.UserFirebaseUID(c), Email: auth.UserEmail(c)}
	if err := h.authService.SignOut(c.Request.Context(), user); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
