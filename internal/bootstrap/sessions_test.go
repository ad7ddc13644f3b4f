package bootstrap

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/auth/domain"
	"github.com/devstudy/devstudy-backend/internal/metrics"
)

func TestRecordAuthEventsCountsByType(t *testing.T) {
	sessions := auth.NewSessions()
	stop := recordAuthEvents(sessions)

	in := metrics.AuthEvents.WithLabelValues(string(domain.EventSignedIn))
	out := metrics.AuthEvents.WithLabelValues(string(domain.EventSignedOut))
	inBefore, outBefore := testutil.ToFloat64(in), testutil.ToFloat64(out)

	u := domain.User{UID: "u1", Email: "a@b.co"}
	sessions.Publish(domain.AuthEvent{Type: domain.EventSignedIn, User: u})
	sessions.Publish(domain.AuthEvent{Type: domain.EventSignedIn, User: u})
	sessions.Publish(domain.AuthEvent{Type: domain.EventSignedOut, User: u})

	assert.Equal(t, inBefore+2, testutil.ToFloat64(in))
	assert.Equal(t, outBefore+1, testutil.ToFloat64(out))

	stop()
	sessions.Publish(domain.AuthEvent{Type: domain.EventSignedOut, User: u})
	assert.Equal(t, outBefore+1, testutil.ToFloat64(out))
}
