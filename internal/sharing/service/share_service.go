package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	contentdomain "github.com/devstudy/devstudy-backend/internal/content/domain"
	"github.com/devstudy/devstudy-backend/internal/live"
	"github.com/devstudy/devstudy-backend/internal/logger"
	"github.com/devstudy/devstudy-backend/internal/metrics"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
	"github.com/devstudy/devstudy-backend/internal/sharing/domain"
	"github.com/devstudy/devstudy-backend/internal/sharing/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContentReader is the slice of the content service that sharing reads from.
type ContentReader interface {
	GetCourse(ctx context.Context, ownerID, id string) (contentdomain.Course, error)
	GetTopic(ctx context.Context, ownerID, id string) (contentdomain.Topic, error)
	GetQuestion(ctx context.Context, ownerID, id string) (contentdomain.Question, error)
	ListSolutions(ctx context.Context, ownerID, questionID string) ([]contentdomain.Solution, error)
}

// ProfileReader resolves recipients.
type ProfileReader interface {
	MustGet(ctx context.Context, userID string) (profiledomain.Profile, error)
}

// CreateShareRequest carries the snapshots to record.
type CreateShareRequest struct {
	QuestionID        string
	RecipientID       string
	RecipientUsername string
	Sender            profiledomain.Profile
	Question          domain.QuestionSnapshot
	Solutions         []domain.SolutionSnapshot
	CourseContext     string
	TopicContext      string
}

type ShareService struct {
	repo     *repository.ShareRepository
	content  ContentReader
	profiles ProfileReader
	log      zerolog.Logger
	now      func() time.Time
}

func NewShareService(repo *repository.ShareRepository, content ContentReader, profiles ProfileReader) *ShareService {
	return &ShareService{
		repo:     repo,
		content:  content,
		profiles: profiles,
		log:      logger.WithComponent("sharing"),
		now:      time.Now,
	}
}

// CreateShare records a pending snapshot share. Sending the same question to
// the same recipient twice yields two shares.
func (s *ShareService) CreateShare(ctx context.Context, req CreateShareRequest) (domain.Share, error) {
	if strings.TrimSpace(req.QuestionID) == "" {
		return domain.Share{}, apperr.Validation("questionId", "question is required")
	}
	if strings.TrimSpace(req.RecipientID) == "" {
		return domain.Share{}, apperr.Validation("recipientId", "recipient is required")
	}
	if req.Sender.UserID == "" {
		return domain.Share{}, apperr.Validation("senderId", "sender is required")
	}

	solutions := make([]domain.SolutionSnapshot, len(req.Solutions))
	copy(solutions, req.Solutions)

	share := domain.Share{
		ID:                uuid.New().String(),
		QuestionID:        req.QuestionID,
		QuestionData:      req.Question,
		Solutions:         solutions,
		SenderID:          req.Sender.UserID,
		SenderUsername:    req.Sender.Username,
		SenderEmail:       req.Sender.Email,
		RecipientID:       req.RecipientID,
		RecipientUsername: req.RecipientUsername,
		CourseContext:     req.CourseContext,
		TopicContext:      req.TopicContext,
		Status:            domain.StatusPending,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &share); err != nil {
		return domain.Share{}, err
	}

	metrics.SharesCreated.Inc()
	s.log.Info().
		Str("share_id", share.ID).
		Str("sender_id", share.SenderID).
		Str("recipient_id", share.RecipientID).
		Msg("share created")
	return share, nil
}

// ShareQuestion snapshots one of the sender's questions and sends it to recipientID.
func (s *ShareService) ShareQuestion(ctx context.Context, sender profiledomain.Profile, questionID, recipientID string) (domain.Share, error) {
	if recipientID == sender.UserID {
		return domain.Share{}, apperr.Validation("recipientId", "cannot share with yourself")
	}

	recipient, err := s.profiles.MustGet(ctx, recipientID)
	if err != nil {
		return domain.Share{}, err
	}

	q, err := s.content.GetQuestion(ctx, sender.UserID, questionID)
	if err != nil {
		return domain.Share{}, err
	}
	sols, err := s.content.ListSolutions(ctx, sender.UserID, questionID)
	if err != nil {
		return domain.Share{}, err
	}

	// Context names are best effort; a missing parent leaves them blank.
	var courseName, topicName string
	if c, err := s.content.GetCourse(ctx, sender.UserID, q.CourseID); err == nil {
		courseName = c.Name
	} else if !apperr.IsNotFound(err) {
		return domain.Share{}, err
	}
	if t, err := s.content.GetTopic(ctx, sender.UserID, q.TopicID); err == nil {
		topicName = t.Name
	} else if !apperr.IsNotFound(err) {
		return domain.Share{}, err
	}

	snaps := make([]domain.SolutionSnapshot, 0, len(sols))
	for _, sol := range sols {
		snaps = append(snaps, domain.SolutionSnapshot{
			Content:   sol.Content,
			Type:      string(sol.Kind),
			Timestamp: sol.CreatedAt,
		})
	}

	return s.CreateShare(ctx, CreateShareRequest{
		QuestionID:        q.ID,
		RecipientID:       recipient.UserID,
		RecipientUsername: recipient.Username,
		Sender:            sender,
		Question:          domain.QuestionSnapshot{Title: q.Title, ProblemText: q.BodyText},
		Solutions:         snaps,
		CourseContext:     courseName,
		TopicContext:      topicName,
	})
}

// ListInbox returns shares sent to userID, newest first.
func (s *ShareService) ListInbox(ctx context.Context, userID string) ([]domain.Share, error) {
	return s.repo.ListInbox(ctx, userID)
}

// CountUnread counts pending shares sent to userID.
func (s *ShareService) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountPending(ctx, userID)
}

// MarkViewed moves a share from pending to viewed. Only the recipient may do
// this; repeating it is a no-op.
func (s *ShareService) MarkViewed(ctx context.Context, shareID, viewerID string) (domain.Share, error) {
	share, err := s.repo.UpdateStatus(ctx, shareID, func(sh *domain.Share) error {
		if sh.RecipientID != viewerID {
			return apperr.Forbidden("view this share")
		}
		if sh.Status == domain.StatusViewed {
			return repository.ErrAlreadyViewed
		}
		at := s.now().UTC()
		sh.Status = domain.StatusViewed
		sh.ViewedAt = &at
		return nil
	})
	if errors.Is(err, repository.ErrAlreadyViewed) {
		return share, nil
	}
	if err != nil {
		return domain.Share{}, err
	}

	metrics.SharesViewed.Inc()
	return share, nil
}

// Inbox returns the current inbox snapshot.
func (s *ShareService) Inbox(ctx context.Context, userID string) (domain.InboxSnapshot, error) {
	shares, err := s.repo.ListInbox(ctx, userID)
	if err != nil {
		return domain.InboxSnapshot{}, err
	}
	unread, err := s.repo.CountPending(ctx, userID)
	if err != nil {
		return domain.InboxSnapshot{}, err
	}
	return domain.InboxSnapshot{Shares: shares, Unread: unread}, nil
}

// WatchInbox streams inbox snapshots for userID until ctx is done or the
// returned cancel func is called.
func (s *ShareService) WatchInbox(ctx context.Context, userID string) (<-chan domain.InboxSnapshot, context.CancelFunc) {
	empty := domain.InboxSnapshot{Shares: []domain.Share{}}
	return live.Watch(ctx, s.repo.Client(), "inbox", empty, func(ctx context.Context) (domain.InboxSnapshot, error) {
		return s.Inbox(ctx, userID)
	}, s.repo.InboxChannel(userID))
}
