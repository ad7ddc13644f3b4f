package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/groups/domain"
	"github.com/devstudy/devstudy-backend/internal/groups/repository"
	"github.com/devstudy/devstudy-backend/internal/groups/service"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProfiles map[string]profiledomain.Profile

func (s staticProfiles) MustGet(_ context.Context, id string) (profiledomain.Profile, error) {
	p, ok := s[id]
	if !ok {
		return profiledomain.Profile{}, apperr.NotFound("profile", id)
	}
	return p, nil
}

func TestGroupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	profiles := staticProfiles{
		"carol": {UserID: "carol", Username: "carol"},
		"mike":  {UserID: "mike", Username: "mike"},
		"nina":  {UserID: "nina", Username: "nina"},
	}
	h := New(service.NewGroupService(repository.NewGroupRepository(client, "test")), profiles)

	do := func(uid, method, target, body string) *httptest.ResponseRecorder {
		r := gin.New()
		rg := r.Group("/api/v1", func(c *gin.Context) {
			c.Set(auth.CtxFirebaseUID, uid)
			c.Next()
		})
		h.Register(rg)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rr, req)
		return rr
	}

	rr := do("carol", http.MethodPost, "/api/v1/groups", `{"name":"Study","memberIds":["mike"]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		Group domain.Group `json:"group"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	g := created.Group

	rr = do("carol", http.MethodPost, "/api/v1/groups", `{"name":"","memberIds":["mike"]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do("nina", http.MethodGet, "/api/v1/groups/"+g.ID, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do("nina", http.MethodPost, "/api/v1/groups/join", `{"code":"`+strings.ToLower(g.InviteCode)+`"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do("nina", http.MethodPost, "/api/v1/groups/join", `{"code":"`+g.InviteCode+`"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do("nina", http.MethodGet, "/api/v1/groups", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), g.ID)

	rr = do("mike", http.MethodDelete, "/api/v1/groups/"+g.ID+"?confirm=true", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do("carol", http.MethodDelete, "/api/v1/groups/"+g.ID, "")
	assert.Equal(t, http.StatusPreconditionRequired, rr.Code)

	rr = do("carol", http.MethodDelete, "/api/v1/groups/"+g.ID+"?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do("carol", http.MethodGet, "/api/v1/groups/"+g.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
