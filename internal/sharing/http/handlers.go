package http

import (
	"net/http"

	"github.com/devstudy/devstudy-backend/internal/api/http/respond"
	"github.com/devstudy/devstudy-backend/internal/api/http/sse"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/gin-gonic/gin"
)

func (h *Handler) create(c *gin.Context) {
	var req shareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "questionId and recipientId are required")
		return
	}

	ctx := c.Request.Context()
	sender, err := h.profiles.MustGet(ctx, auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	share, err := h.shares.ShareQuestion(ctx, sender, req.QuestionID, req.RecipientID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"share": share})
}

func (h *Handler) inbox(c *gin.Context) {
	shares, err := h.shares.ListInbox(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares})
}

func (h *Handler) unread(c *gin.Context) {
	n, err := h.shares.CountUnread(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (h *Handler) markViewed(c *gin.Context) {
	share, err := h.shares.MarkViewed(c.Request.Context(), c.Param("id"), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"share": share})
}

// stream pushes inbox snapshots (shares + unread count) over SSE.
func (h *Handler) stream(c *gin.Context) {
	snapshots, cancel := h.shares.WatchInbox(c.Request.Context(), auth.UserFirebaseUID(c))
	defer cancel()

	sse.Stream(c, "update", snapshots)
}
