package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/auth/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier map[string]domain.User

func (s stubVerifier) VerifyToken(_ context.Context, tok string) (domain.User, error) {
	u, ok := s[tok]
	if !ok {
		return domain.User{}, &apperr.AuthError{Message: "Invalid session. Please sign in again."}
	}
	return u, nil
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(FirebaseAuthMiddleware(stubVerifier{"good": {UID: "u1", Email: "u1@example.com"}}))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": auth.UserFirebaseUID(c), "email": auth.UserEmail(c)})
	})

	cases := []struct {
		header string
		code   int
	}{
		{"", http.StatusUnauthorized},
		{"Token good", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, tc.code, rr.Code, tc.header)
		if tc.code == http.StatusOK {
			assert.JSONEq(t, `{"uid":"u1","email":"u1@example.com"}`, rr.Body.String())
		}
	}
}
