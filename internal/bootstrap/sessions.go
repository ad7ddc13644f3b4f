package bootstrap

import (
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/auth/domain"
	"github.com/devstudy/devstudy-backend/internal/logger"
	"github.com/devstudy/devstudy-backend/internal/metrics"
)

// recordAuthEvents counts and logs every sign-in and sign-out published on
// sessions. The returned func detaches the listener.
func recordAuthEvents(sessions *auth.Sessions) func() {
	log := logger.WithComponent("sessions")
	return sessions.OnAuthChange(func(ev domain.AuthEvent) {
		metrics.AuthEvents.WithLabelValues(string(ev.Type)).Inc()
		log.Info().Str("user_id", ev.User.UID).Str("event", string(ev.Type)).Msg("auth state changed")
	})
}
