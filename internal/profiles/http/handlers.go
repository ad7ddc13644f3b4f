package http

import (
	"net/http"

	"github.com/devstudy/devstudy-backend/internal/api/http/respond"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/gin-gonic/gin"
)

// GetProfile returns the caller's profile, or needsUsername when none exists.
func (h *Handler) GetProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)

	p, needsUsername, err := h.profiles.EnsureProfile(c.Request.Context(), uid)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if needsUsername {
		c.JSON(http.StatusOK, gin.H{"profile": nil, "needsUsername": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "needsUsername": false})
}

// PutProfile creates or replaces the caller's profile.
func (h *Handler) PutProfile(c *gin.Context) {
	var req createProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	email := auth.UserEmail(c)
	if email == "" {
		email = req.Email
	}

	p, err := h.profiles.CreateProfile(c.Request.Context(), auth.UserFirebaseUID(c), email, req.Username)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// Search returns profiles whose username or email contains q.
func (h *Handler) Search(c *gin.Context) {
	out, err := h.profiles.SearchProfiles(c.Request.Context(), c.Query("q"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": out})
}
