package http

import (
	"net/http"

	"github.com/devstudy/devstudy-backend/internal/api/http/respond"
	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/content/domain"
	"github.com/devstudy/devstudy-backend/internal/content/service"
	"github.com/gin-gonic/gin"
)

func collectionParam(c *gin.Context) (domain.Collection, bool) {
	col, ok := domain.ParseCollection(c.Param("collection"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
	}
	return col, ok
}

// list returns the caller's items. Children are filtered by their parent id,
// passed as ?courseId=, ?topicId= or ?questionId=.
func (h *Handler) list(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}
	uid := auth.UserFirebaseUID(c)
	ctx := c.Request.Context()

	parentID := ""
	if f := col.ParentField(); f != "" {
		parentID = c.Query(f)
		if parentID == "" {
			respond.Error(c, apperr.Validation(f, f+" query parameter is required"))
			return
		}
	}

	var (
		items interface{}
		err   error
	)
	switch col {
	case domain.Courses:
		items, err = h.content.ListCourses(ctx, uid)
	case domain.Topics:
		items, err = h.content.ListTopics(ctx, uid, parentID)
	case domain.Questions:
		items, err = h.content.ListQuestions(ctx, uid, parentID)
	case domain.Solutions:
		items, err = h.content.ListSolutions(ctx, uid, parentID)
	}
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) create(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}
	uid := auth.UserFirebaseUID(c)
	ctx := c.Request.Context()

	var (
		item interface{}
		err  error
	)
	switch col {
	case domain.Courses:
		var req service.NewCourse
		if c.ShouldBindJSON(&req) != nil {
			respond.BadRequest(c, "invalid request body")
			return
		}
		item, err = h.content.CreateCourse(ctx, uid, req)
	case domain.Topics:
		var req createTopicReq
		if c.ShouldBindJSON(&req) != nil {
			respond.BadRequest(c, "invalid request body")
			return
		}
		item, err = h.content.CreateTopic(ctx, uid, req.CourseID, req.Name)
	case domain.Questions:
		var req service.NewQuestion
		if c.ShouldBindJSON(&req) != nil {
			respond.BadRequest(c, "invalid request body")
			return
		}
		item, err = h.content.CreateQuestion(ctx, uid, req)
	case domain.Solutions:
		var req service.NewSolution
		if c.ShouldBindJSON(&req) != nil {
			respond.BadRequest(c, "invalid request body")
			return
		}
		item, err = h.content.CreateSolution(ctx, uid, req)
	}
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) get(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}
	uid := auth.UserFirebaseUID(c)
	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		item interface{}
		err  error
	)
	switch col {
	case domain.Courses:
		item, err = h.content.GetCourse(ctx, uid, id)
	case domain.Topics:
		item, err = h.content.GetTopic(ctx, uid, id)
	case domain.Questions:
		item, err = h.content.GetQuestion(ctx, uid, id)
	case domain.Solutions:
		item, err = h.content.GetSolution(ctx, uid, id)
	}
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// delete removes the item and everything beneath it.
func (h *Handler) delete(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}
	if !respond.Confirmed(c) {
		return
	}

	if err := h.content.Delete(c.Request.Context(), auth.UserFirebaseUID(c), col, c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
