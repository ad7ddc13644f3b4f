// Package sse writes live snapshots to a client as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// KeepAlive is the interval between comment pings on an idle stream.
var KeepAlive = 15 * time.Second

// Stream sends every value received on snapshots as an event named event.
// The first value is sent as "initial". It returns when the client
// disconnects or snapshots is closed.
func Stream[T any](c *gin.Context, event string, snapshots <-chan T) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	ticker := time.NewTicker(KeepAlive)
	defer ticker.Stop()

	name := "initial"
	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", name, data)
			flusher.Flush()
			name = event
		}
	}
}
