package sse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		ch := make(chan map[string]int, 2)
		ch <- map[string]int{"unread": 1}
		ch <- map[string]int{"unread": 0}
		close(ch)
		Stream(c, "update", ch)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t,
		"event: initial\ndata: {\"unread\":1}\n\nevent: update\ndata: {\"unread\":0}\n\n",
		rr.Body.String())
}
