package http

import (
	"net/http"

	"github.com/devstudy/devstudy-backend/internal/api/http/respond"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/gin-gonic/gin"
)

func (h *Handler) list(c *gin.Context) {
	courses, err := h.agg.ListSharedCourses(c.Request.Context(), c.Param("id"), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *Handler) share(c *gin.Context) {
	var req shareCourseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "courseId is required")
		return
	}
	ctx := c.Request.Context()

	sharer, err := h.profiles.MustGet(ctx, auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	share, err := h.agg.ShareCourseToGroup(ctx, c.Param("id"), req.CourseID, sharer)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"share": share})
}

// problems materializes the shared course from the sharer's store.
func (h *Handler) problems(c *gin.Context) {
	view, err := h.agg.ViewSharedCourse(c.Request.Context(), c.Param("id"), c.Param("shareId"), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
