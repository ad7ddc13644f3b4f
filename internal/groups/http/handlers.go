package http

import (
	"net/http"

	"github.com/devstudy/devstudy-backend/internal/api/http/respond"
	"github.com/devstudy/devstudy-backend/internal/api/http/sse"
	"github.com/devstudy/devstudy-backend/internal/auth"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
	"github.com/gin-gonic/gin"
)

func (h *Handler) list(c *gin.Context) {
	groups, err := h.groups.ListGroupsForUser(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *Handler) create(c *gin.Context) {
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	creator, err := h.profiles.MustGet(ctx, auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	members := make([]profiledomain.Profile, 0, len(req.MemberIDs))
	for _, id := range req.MemberIDs {
		p, err := h.profiles.MustGet(ctx, id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		members = append(members, p)
	}

	g, err := h.groups.CreateGroup(ctx, req.Name, members, creator)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": g})
}

func (h *Handler) join(c *gin.Context) {
	var req joinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invite code is required")
		return
	}
	ctx := c.Request.Context()

	joiner, err := h.profiles.MustGet(ctx, auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	g, err := h.groups.JoinByCode(ctx, req.Code, joiner)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": g})
}

func (h *Handler) get(c *gin.Context) {
	view, err := h.groups.View(c.Request.Context(), c.Param("id"), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) delete(c *gin.Context) {
	if !respond.Confirmed(c) {
		return
	}
	if err := h.groups.DeleteGroup(c.Request.Context(), c.Param("id"), auth.UserFirebaseUID(c)); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addMember(c *gin.Context) {
	var req addMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "userId is required")
		return
	}
	ctx := c.Request.Context()

	p, err := h.profiles.MustGet(ctx, req.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	g, err := h.groups.AddMember(ctx, c.Param("id"), auth.UserFirebaseUID(c), p)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": g})
}

func (h *Handler) leave(c *gin.Context) {
	if err := h.groups.LeaveGroup(c.Request.Context(), c.Param("id"), auth.UserFirebaseUID(c)); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) stream(c *gin.Context) {
	views, cancel, err := h.groups.WatchGroup(c.Request.Context(), c.Param("id"), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	defer cancel()

	sse.Stream(c, "update", views)
}
