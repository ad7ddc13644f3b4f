// Package live turns Redis pub/sub notifications into a stream of full
// snapshots: one on subscribe and one after every change notification.
package live

import (
	"context"

	"github.com/devstudy/devstudy-backend/internal/logger"
	"github.com/devstudy/devstudy-backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// Loader reads the current snapshot.
type Loader[T any] func(ctx context.Context) (T, error)

// Watch subscribes to channels and delivers snapshots produced by load. A
// consumer that falls behind only ever sees the newest snapshot. Load errors
// are logged and delivered as empty. The returned channel is closed once ctx
// is done or cancel is called.
func Watch[T any](ctx context.Context, rdb *redis.Client, stream string, empty T, load Loader[T], channels ...string) (<-chan T, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan T, 1)
	log := logger.WithComponent("live").With().Str("stream", stream).Logger()

	ps := rdb.Subscribe(ctx, channels...)
	gauge := metrics.LiveSubscribers.WithLabelValues(stream)
	gauge.Inc()

	go func() {
		defer close(out)
		defer gauge.Dec()
		defer ps.Close()

		// Wait for the subscription before the first read so no change
		// between the two can be missed.
		if _, err := ps.Receive(ctx); err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("subscribe failed")
				offer(out, empty)
			}
			return
		}

		emit := func() {
			v, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn().Err(err).Msg("snapshot load failed")
				v = empty
			}
			offer(out, v)
		}

		emit()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return out, cancel
}

// offer replaces any undelivered snapshot with v. Only the Watch goroutine
// sends on ch.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Notify publishes a change notification on channel.
func Notify(ctx context.Context, rdb *redis.Client, channel string) {
	if err := rdb.Publish(ctx, channel, "changed").Err(); err != nil {
		log := logger.WithComponent("live")
		log.Warn().Err(err).Str("channel", channel).Msg("publish failed")
	}
}
