package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/groups/domain"
	"github.com/devstudy/devstudy-backend/internal/groups/repository"
	"github.com/devstudy/devstudy-backend/internal/live"
	"github.com/devstudy/devstudy-backend/internal/logger"
	"github.com/devstudy/devstudy-backend/internal/metrics"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InviteCodeAttempts bounds how many codes CreateGroup tries before giving up.
const InviteCodeAttempts = 5

var errInviteCodesExhausted = errors.New("no free invite code after retries")

type GroupService struct {
	repo    *repository.GroupRepository
	log     zerolog.Logger
	now     func() time.Time
	newCode func() (string, error)
}

func NewGroupService(repo *repository.GroupRepository) *GroupService {
	return &GroupService{
		repo:    repo,
		log:     logger.WithComponent("groups"),
		now:     time.Now,
		newCode: GenerateInviteCode,
	}
}

// Repository exposes the store for the course-sharing read path.
func (s *GroupService) Repository() *repository.GroupRepository { return s.repo }

// GenerateInviteCode returns a random code over InviteAlphabet.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, domain.InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	// 256 is a multiple of the alphabet size, so the modulo is unbiased.
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = domain.InviteAlphabet[int(b)%len(domain.InviteAlphabet)]
	}
	return string(out), nil
}

// NormalizeInviteCode trims and uppercases user input.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateGroup creates a group with a fresh invite code. The creator is
// always a member.
func (s *GroupService) CreateGroup(ctx context.Context, name string, initialMembers []profiledomain.Profile, creator profiledomain.Profile) (domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Group{}, apperr.Validation("name", "group name is required")
	}
	if len(initialMembers) == 0 {
		return domain.Group{}, apperr.Validation("members", "at least one member is required")
	}
	if creator.UserID == "" {
		return domain.Group{}, apperr.Validation("creatorId", "creator is required")
	}

	now := s.now().UTC()
	g := domain.Group{
		ID:              uuid.New().String(),
		Name:            name,
		CreatorID:       creator.UserID,
		CreatorUsername: creator.Username,
		CreatedAt:       now,
	}
	g.AddMember(memberOf(creator, now))
	for _, p := range initialMembers {
		if p.UserID == "" {
			return domain.Group{}, apperr.Validation("members", "member without user id")
		}
		g.AddMember(memberOf(p, now))
	}

	code, err := s.reserveCode(ctx, g.ID)
	if err != nil {
		return domain.Group{}, err
	}
	g.InviteCode = code

	if err := s.repo.Create(ctx, &g); err != nil {
		if rerr := s.repo.ReleaseInviteCode(ctx, code); rerr != nil {
			s.log.Warn().Err(rerr).Str("invite_code", code).Msg("failed to release invite code")
		}
		return domain.Group{}, err
	}

	metrics.GroupsCreated.Inc()
	s.log.Info().Str("group_id", g.ID).Str("creator_id", g.CreatorID).Int("members", len(g.Members)).Msg("group created")
	return g, nil
}

func (s *GroupService) reserveCode(ctx context.Context, groupID string) (string, error) {
	for i := 0; i < InviteCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		ok, err := s.repo.ReserveInviteCode(ctx, code, groupID)
		if err != nil {
			return "", err
		}
		if ok {
			return code, nil
		}
		s.log.Debug().Str("invite_code", code).Msg("invite code collision, retrying")
	}
	return "", apperr.Store("reserve invite code", errInviteCodesExhausted)
}

// JoinByCode adds joiner to the group holding code.
func (s *GroupService) JoinByCode(ctx context.Context, code string, joiner profiledomain.Profile) (domain.Group, error) {
	code = NormalizeInviteCode(code)
	if code == "" {
		return domain.Group{}, apperr.NotFound("invite code", "")
	}
	groupID, err := s.repo.GroupIDForInviteCode(ctx, code)
	if err != nil {
		return domain.Group{}, err
	}

	g, err := s.repo.UpdateMembers(ctx, groupID, func(g *domain.Group) error {
		if g.HasMember(joiner.UserID) {
			return &apperr.AlreadyMemberError{GroupID: g.ID, UserID: joiner.UserID}
		}
		g.AddMember(memberOf(joiner, s.now().UTC()))
		return nil
	})
	if err != nil {
		return domain.Group{}, err
	}

	metrics.GroupJoins.WithLabelValues("invite_code").Inc()
	return g, nil
}

// AddMember lets any existing member add another user.
func (s *GroupService) AddMember(ctx context.Context, groupID, actorID string, profile profiledomain.Profile) (domain.Group, error) {
	if profile.UserID == "" {
		return domain.Group{}, apperr.Validation("userId", "user is required")
	}

	g, err := s.repo.UpdateMembers(ctx, groupID, func(g *domain.Group) error {
		if !g.HasMember(actorID) {
			return apperr.Forbidden("add members to this group")
		}
		if g.HasMember(profile.UserID) {
			return &apperr.AlreadyMemberError{GroupID: g.ID, UserID: profile.UserID}
		}
		g.AddMember(memberOf(profile, s.now().UTC()))
		return nil
	})
	if err != nil {
		return domain.Group{}, err
	}

	metrics.GroupJoins.WithLabelValues("added").Inc()
	return g, nil
}

// LeaveGroup removes a regular member. The creator has to delete the group.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID, userID string) error {
	_, err := s.repo.UpdateMembers(ctx, groupID, func(g *domain.Group) error {
		if g.CreatorID == userID {
			return apperr.Forbidden("leave a group you created, delete it instead")
		}
		if !g.RemoveMember(userID) {
			return apperr.Forbidden("leave a group you are not a member of")
		}
		return nil
	})
	return err
}

// DeleteGroup removes the group and every course pointer shared into it.
// Only the creator may delete.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, actorID string) error {
	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if g.CreatorID != actorID {
		return apperr.Forbidden("delete this group")
	}
	if err := s.repo.Delete(ctx, groupID); err != nil {
		return err
	}
	s.log.Info().Str("group_id", groupID).Msg("group deleted")
	return nil
}

// ListGroupsForUser returns groups where userID is a member or the creator,
// newest first.
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]domain.Group, error) {
	return s.repo.ListForUser(ctx, userID)
}

// GetGroup returns the group if viewerID belongs to it.
func (s *GroupService) GetGroup(ctx context.Context, groupID, viewerID string) (domain.Group, error) {
	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return domain.Group{}, err
	}
	if !g.HasMember(viewerID) {
		return domain.Group{}, apperr.Forbidden("view this group")
	}
	return g, nil
}

// View loads the group together with its shared courses.
func (s *GroupService) View(ctx context.Context, groupID, viewerID string) (domain.GroupView, error) {
	g, err := s.GetGroup(ctx, groupID, viewerID)
	if err != nil {
		return domain.GroupView{}, err
	}
	courses, err := s.repo.ListCourseShares(ctx, groupID)
	if err != nil {
		return domain.GroupView{}, err
	}
	return domain.GroupView{Group: &g, Courses: courses}, nil
}

// WatchGroup streams GroupView snapshots. Membership is checked once up
// front; a deleted group or a viewer who left yields an empty view.
func (s *GroupService) WatchGroup(ctx context.Context, groupID, viewerID string) (<-chan domain.GroupView, context.CancelFunc, error) {
	if _, err := s.GetGroup(ctx, groupID, viewerID); err != nil {
		return nil, nil, err
	}

	empty := domain.GroupView{Courses: []domain.GroupCourseShare{}}
	ch, cancel := live.Watch(ctx, s.repo.Client(), "group", empty, func(ctx context.Context) (domain.GroupView, error) {
		return s.View(ctx, groupID, viewerID)
	}, s.repo.GroupChannel(groupID))
	return ch, cancel, nil
}

func memberOf(p profiledomain.Profile, at time.Time) domain.Member {
	return domain.Member{UserID: p.UserID, Username: p.Username, Email: p.Email, JoinedAt: at}
}
