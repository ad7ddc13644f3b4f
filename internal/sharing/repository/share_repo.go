package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/live"
	"github.com/devstudy/devstudy-backend/internal/sharing/domain"
	"github.com/redis/go-redis/v9"
)

const maxTxRetries = 10

// ErrAlreadyViewed is returned by MarkViewed when there was nothing to change.
var ErrAlreadyViewed = errors.New("share already viewed")

// ShareRepository keeps shares in Redis:
//
//	{ns}:share:{id}            JSON document
//	{ns}:inbox:{uid}           sorted set of share ids scored by createdAt
//	{ns}:inbox:{uid}:pending   set of pending share ids
type ShareRepository struct {
	client *redis.Client
	ns     string
}

func NewShareRepository(client *redis.Client, namespace string) *ShareRepository {
	return &ShareRepository{client: client, ns: namespace}
}

func (r *ShareRepository) Client() *redis.Client { return r.client }

// Create stores the share and indexes it in the recipient's inbox.
func (r *ShareRepository) Create(ctx context.Context, s *domain.Share) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal share: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.shareKey(s.ID), data, 0)
		pipe.ZAdd(ctx, r.inboxKey(s.RecipientID), redis.Z{
			Score:  float64(s.CreatedAt.UnixMicro()),
			Member: s.ID,
		})
		if s.Status == domain.StatusPending {
			pipe.SAdd(ctx, r.pendingKey(s.RecipientID), s.ID)
		}
		return nil
	})
	if err != nil {
		return apperr.Store("create share", err)
	}

	r.publish(ctx, s.RecipientID)
	return nil
}

// Get retrieves a share by id.
func (r *ShareRepository) Get(ctx context.Context, id string) (domain.Share, error) {
	data, err := r.client.Get(ctx, r.shareKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Share{}, apperr.NotFound("share", id)
	}
	if err != nil {
		return domain.Share{}, apperr.Store("get share", err)
	}

	var s domain.Share
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Share{}, fmt.Errorf("failed to unmarshal share: %w", err)
	}
	return s, nil
}

// ListInbox returns the recipient's shares, newest first.
func (r *ShareRepository) ListInbox(ctx context.Context, userID string) ([]domain.Share, error) {
	ids, err := r.client.ZRevRange(ctx, r.inboxKey(userID), 0, -1).Result()
	if err != nil {
		return nil, apperr.Store("list inbox", err)
	}
	out := make([]domain.Share, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.shareKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperr.Store("load inbox", err)
	}

	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var s domain.Share
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal share: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CountPending counts the recipient's pending shares.
func (r *ShareRepository) CountPending(ctx context.Context, userID string) (int, error) {
	n, err := r.client.SCard(ctx, r.pendingKey(userID)).Result()
	if err != nil {
		return 0, apperr.Store("count unread", err)
	}
	return int(n), nil
}

// UpdateStatus applies mutate to the stored share under optimistic locking.
// mutate returns ErrAlreadyViewed (or any error) to abort without writing.
func (r *ShareRepository) UpdateStatus(ctx context.Context, id string, mutate func(*domain.Share) error) (domain.Share, error) {
	key := r.shareKey(id)
	var updated domain.Share

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("share", id)
		}
		if err != nil {
			return err
		}

		var s domain.Share
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to unmarshal share: %w", err)
		}
		if err := mutate(&s); err != nil {
			updated = s
			return err
		}

		next, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal share: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			if s.Status != domain.StatusPending {
				pipe.SRem(ctx, r.pendingKey(s.RecipientID), s.ID)
			}
			return nil
		})
		updated = s
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrAlreadyViewed) {
			return updated, err
		}
		if err != nil {
			return domain.Share{}, apperr.Store("update share", err)
		}
		r.publish(ctx, updated.RecipientID)
		return updated, nil
	}
	return domain.Share{}, apperr.Store("update share", redis.TxFailedErr)
}

// InboxChannel is the pub/sub channel notified on every change to userID's inbox.
func (r *ShareRepository) InboxChannel(userID string) string {
	return fmt.Sprintf("%s:events:inbox:%s", r.ns, userID)
}

func (r *ShareRepository) publish(ctx context.Context, userID string) {
	live.Notify(ctx, r.client, r.InboxChannel(userID))
}

func (r *ShareRepository) shareKey(id string) string {
	return fmt.Sprintf("%s:share:%s", r.ns, id)
}

func (r *ShareRepository) inboxKey(userID string) string {
	return fmt.Sprintf("%s:inbox:%s", r.ns, userID)
}

func (r *ShareRepository) pendingKey(userID string) string {
	return fmt.Sprintf("%s:inbox:%s:pending", r.ns, userID)
}
