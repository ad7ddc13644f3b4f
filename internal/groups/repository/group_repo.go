package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/groups/domain"
	"github.com/devstudy/devstudy-backend/internal/live"
	"github.com/devstudy/devstudy-backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const maxTxRetries = 32

// GroupRepository keeps groups and their course pointers in Redis:
//
//	{ns}:group:{id}            JSON document
//	{ns}:group:{id}:courses    sorted set of course share ids scored by sharedAt
//	{ns}:groupshare:{id}       JSON GroupCourseShare
//	{ns}:invite:{code}         group id, reserved with SETNX
//	{ns}:user:{uid}:groups     sorted set of group ids scored by group createdAt
type GroupRepository struct {
	client *redis.Client
	ns     string
}

func NewGroupRepository(client *redis.Client, namespace string) *GroupRepository {
	return &GroupRepository{client: client, ns: namespace}
}

func (r *GroupRepository) Client() *redis.Client { return r.client }

// ReserveInviteCode claims code for groupID. It returns false if the code is taken.
func (r *GroupRepository) ReserveInviteCode(ctx context.Context, code, groupID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.inviteKey(code), groupID, 0).Result()
	if err != nil {
		return false, apperr.Store("reserve invite code", err)
	}
	return ok, nil
}

// ReleaseInviteCode drops a reservation.
func (r *GroupRepository) ReleaseInviteCode(ctx context.Context, code string) error {
	return apperr.Store("release invite code", r.client.Del(ctx, r.inviteKey(code)).Err())
}

// Create stores g and indexes it for every member.
func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	score := float64(g.CreatedAt.UnixMicro())
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.groupKey(g.ID), data, 0)
		for _, uid := range g.MemberIDs() {
			pipe.ZAdd(ctx, r.userGroupsKey(uid), redis.Z{Score: score, Member: g.ID})
		}
		return nil
	})
	if err != nil {
		return apperr.Store("create group", err)
	}
	return nil
}

// Get retrieves a group by id.
func (r *GroupRepository) Get(ctx context.Context, id string) (domain.Group, error) {
	data, err := r.client.Get(ctx, r.groupKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Group{}, apperr.NotFound("group", id)
	}
	if err != nil {
		return domain.Group{}, apperr.Store("get group", err)
	}
	return decodeGroup(data)
}

// GroupIDForInviteCode resolves an invite code.
func (r *GroupRepository) GroupIDForInviteCode(ctx context.Context, code string) (string, error) {
	id, err := r.client.Get(ctx, r.inviteKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.NotFound("invite code", "")
	}
	if err != nil {
		return "", apperr.Store("resolve invite code", err)
	}
	return id, nil
}

// UpdateMembers applies mutate to the group under WATCH/MULTI and retries
// when another writer got there first. The per-user indexes follow the
// membership change in the same transaction.
func (r *GroupRepository) UpdateMembers(ctx context.Context, id string, mutate func(*domain.Group) error) (domain.Group, error) {
	key := r.groupKey(id)
	var updated domain.Group

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("group", id)
		}
		if err != nil {
			return err
		}
		g, err := decodeGroup(data)
		if err != nil {
			return err
		}

		before := toSet(g.MemberIDs())
		if err := mutate(&g); err != nil {
			return err
		}
		after := toSet(g.MemberIDs())

		next, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("failed to marshal group: %w", err)
		}

		score := float64(g.CreatedAt.UnixMicro())
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			for uid := range after {
				if !before[uid] {
					pipe.ZAdd(ctx, r.userGroupsKey(uid), redis.Z{Score: score, Member: g.ID})
				}
			}
			for uid := range before {
				if !after[uid] {
					pipe.ZRem(ctx, r.userGroupsKey(uid), g.ID)
				}
			}
			return nil
		})
		updated = g
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			metrics.MembershipConflicts.Inc()
			continue
		}
		if err != nil {
			return domain.Group{}, apperr.Store("update group members", err)
		}
		r.publish(ctx, id)
		return updated, nil
	}
	return domain.Group{}, apperr.Store("update group members", redis.TxFailedErr)
}

// Delete removes the group, its invite code, its member indexes and every
// course pointer shared into it.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	key := r.groupKey(id)
	coursesKey := r.groupCoursesKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("group", id)
		}
		if err != nil {
			return err
		}
		g, err := decodeGroup(data)
		if err != nil {
			return err
		}
		shareIDs, err := tx.ZRange(ctx, coursesKey, 0, -1).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key, coursesKey)
			if g.InviteCode != "" {
				pipe.Del(ctx, r.inviteKey(g.InviteCode))
			}
			for _, sid := range shareIDs {
				pipe.Del(ctx, r.courseShareKey(sid))
			}
			for _, uid := range g.MemberIDs() {
				pipe.ZRem(ctx, r.userGroupsKey(uid), id)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key, coursesKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return apperr.Store("delete group", err)
		}
		r.publish(ctx, id)
		return nil
	}
	return apperr.Store("delete group", redis.TxFailedErr)
}

// ListForUser returns the groups userID belongs to, newest first.
func (r *GroupRepository) ListForUser(ctx context.Context, userID string) ([]domain.Group, error) {
	ids, err := r.client.ZRevRange(ctx, r.userGroupsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, apperr.Store("list groups", err)
	}
	out := make([]domain.Group, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.groupKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperr.Store("load groups", err)
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		g, err := decodeGroup([]byte(raw))
		if err != nil {
			return nil, err
		}
		if g.HasMember(userID) {
			out = append(out, g)
		}
	}
	return out, nil
}

// AddCourseShare stores a course pointer. The group must still exist.
func (r *GroupRepository) AddCourseShare(ctx context.Context, s *domain.GroupCourseShare) error {
	key := r.groupKey(s.GroupID)
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal course share: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("group", s.GroupID)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.courseShareKey(s.ID), data, 0)
			pipe.ZAdd(ctx, r.groupCoursesKey(s.GroupID), redis.Z{
				Score:  float64(s.SharedAt.UnixMicro()),
				Member: s.ID,
			})
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return apperr.Store("share course", err)
		}
		r.publish(ctx, s.GroupID)
		return nil
	}
	return apperr.Store("share course", redis.TxFailedErr)
}

// GetCourseShare retrieves one course pointer.
func (r *GroupRepository) GetCourseShare(ctx context.Context, id string) (domain.GroupCourseShare, error) {
	data, err := r.client.Get(ctx, r.courseShareKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GroupCourseShare{}, apperr.NotFound("shared course", id)
	}
	if err != nil {
		return domain.GroupCourseShare{}, apperr.Store("get shared course", err)
	}

	var s domain.GroupCourseShare
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.GroupCourseShare{}, fmt.Errorf("failed to unmarshal course share: %w", err)
	}
	return s, nil
}

// ListCourseShares returns the group's course pointers, newest first.
func (r *GroupRepository) ListCourseShares(ctx context.Context, groupID string) ([]domain.GroupCourseShare, error) {
	ids, err := r.client.ZRevRange(ctx, r.groupCoursesKey(groupID), 0, -1).Result()
	if err != nil {
		return nil, apperr.Store("list shared courses", err)
	}
	out := make([]domain.GroupCourseShare, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.courseShareKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperr.Store("load shared courses", err)
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var s domain.GroupCourseShare
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal course share: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// GroupChannel is the pub/sub channel notified on every change to a group.
func (r *GroupRepository) GroupChannel(groupID string) string {
	return fmt.Sprintf("%s:events:group:%s", r.ns, groupID)
}

func (r *GroupRepository) publish(ctx context.Context, groupID string) {
	live.Notify(ctx, r.client, r.GroupChannel(groupID))
}

func decodeGroup(data []byte) (domain.Group, error) {
	var g domain.Group
	if err := json.Unmarshal(data, &g); err != nil {
		return domain.Group{}, fmt.Errorf("failed to unmarshal group: %w", err)
	}
	return g, nil
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func (r *GroupRepository) groupKey(id string) string {
	return fmt.Sprintf("%s:group:%s", r.ns, id)
}

func (r *GroupRepository) groupCoursesKey(id string) string {
	return fmt.Sprintf("%s:group:%s:courses", r.ns, id)
}

func (r *GroupRepository) courseShareKey(id string) string {
	return fmt.Sprintf("%s:groupshare:%s", r.ns, id)
}

func (r *GroupRepository) inviteKey(code string) string {
	return fmt.Sprintf("%s:invite:%s", r.ns, code)
}

func (r *GroupRepository) userGroupsKey(userID string) string {
	return fmt.Sprintf("%s:user:%s:groups", r.ns, userID)
}
