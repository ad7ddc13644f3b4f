package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/content/repository"
	"github.com/devstudy/devstudy-backend/internal/content/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rg := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(auth.CtxFirebaseUID, "alice")
		c.Next()
	})
	New(service.NewContentService(repository.NewMemoryStore())).Register(rg)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	return rr
}

func createdID(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var body struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Item.ID
}

func TestContentRoutes(t *testing.T) {
	r := setupRouter()

	courseID := createdID(t, do(r, http.MethodPost, "/api/v1/content/courses", `{"name":"DSA"}`))
	topicID := createdID(t, do(r, http.MethodPost, "/api/v1/content/topics", `{"courseId":"`+courseID+`","name":"Arrays"}`))
	createdID(t, do(r, http.MethodPost, "/api/v1/content/questions", `{"topicId":"`+topicID+`","title":"Two Sum","bodyText":"find"}`))

	rr := do(r, http.MethodGet, "/api/v1/content/topics?courseId="+courseID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Arrays")

	rr = do(r, http.MethodGet, "/api/v1/content/topics", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(r, http.MethodGet, "/api/v1/content/widgets", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(r, http.MethodPost, "/api/v1/content/courses", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(r, http.MethodDelete, "/api/v1/content/courses/"+courseID, "")
	assert.Equal(t, http.StatusPreconditionRequired, rr.Code)

	rr = do(r, http.MethodDelete, "/api/v1/content/courses/"+courseID+"?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(r, http.MethodGet, "/api/v1/content/topics/"+topicID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
