package service

import (
	"context"
	"strings"
	"time"

	"github.com/devstudy/devstudy-backend/internal/aggregation/domain"
	"github.com/devstudy/devstudy-backend/internal/apperr"
	contentdomain "github.com/devstudy/devstudy-backend/internal/content/domain"
	groupdomain "github.com/devstudy/devstudy-backend/internal/groups/domain"
	"github.com/devstudy/devstudy-backend/internal/groups/repository"
	"github.com/devstudy/devstudy-backend/internal/logger"
	"github.com/devstudy/devstudy-backend/internal/metrics"
	profiledomain "github.com/devstudy/devstudy-backend/internal/profiles/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ContentReader is the read-only view of a user's content store used here.
type ContentReader interface {
	GetCourse(ctx context.Context, ownerID, id string) (contentdomain.Course, error)
	ListTopics(ctx context.Context, ownerID, courseID string) ([]contentdomain.Topic, error)
	ListQuestions(ctx context.Context, ownerID, topicID string) ([]contentdomain.Question, error)
	ListSolutions(ctx context.Context, ownerID, questionID string) ([]contentdomain.Solution, error)
}

// GroupReader checks membership.
type GroupReader interface {
	GetGroup(ctx context.Context, groupID, viewerID string) (groupdomain.Group, error)
}

type AggregationService struct {
	groups  GroupReader
	repo    *repository.GroupRepository
	content ContentReader
	workers int
	log     zerolog.Logger
	now     func() time.Time
}

// NewAggregationService creates the service. workers bounds concurrent
// content reads per aggregation.
func NewAggregationService(groups GroupReader, repo *repository.GroupRepository, content ContentReader, workers int) *AggregationService {
	if workers < 1 {
		workers = 1
	}
	return &AggregationService{
		groups:  groups,
		repo:    repo,
		content: content,
		workers: workers,
		log:     logger.WithComponent("aggregation"),
		now:     time.Now,
	}
}

// ShareCourseToGroup publishes a pointer to one of the sharer's courses into
// a group they belong to. No content is copied.
func (s *AggregationService) ShareCourseToGroup(ctx context.Context, groupID, courseID string, sharer profiledomain.Profile) (groupdomain.GroupCourseShare, error) {
	if strings.TrimSpace(courseID) == "" {
		return groupdomain.GroupCourseShare{}, apperr.Validation("courseId", "course is required")
	}
	if _, err := s.groups.GetGroup(ctx, groupID, sharer.UserID); err != nil {
		return groupdomain.GroupCourseShare{}, err
	}
	course, err := s.content.GetCourse(ctx, sharer.UserID, courseID)
	if err != nil {
		return groupdomain.GroupCourseShare{}, err
	}

	share := groupdomain.GroupCourseShare{
		ID:               uuid.New().String(),
		GroupID:          groupID,
		CourseID:         course.ID,
		CourseName:       course.Name,
		SharedBy:         sharer.UserID,
		SharedByUsername: sharer.Username,
		SharedAt:         s.now().UTC(),
	}
	if err := s.repo.AddCourseShare(ctx, &share); err != nil {
		return groupdomain.GroupCourseShare{}, err
	}

	s.log.Info().Str("group_id", groupID).Str("course_id", courseID).Str("shared_by", sharer.UserID).Msg("course shared to group")
	return share, nil
}

// ListSharedCourses returns the group's course pointers, newest first.
func (s *AggregationService) ListSharedCourses(ctx context.Context, groupID, viewerID string) ([]groupdomain.GroupCourseShare, error) {
	if _, err := s.groups.GetGroup(ctx, groupID, viewerID); err != nil {
		return nil, err
	}
	return s.repo.ListCourseShares(ctx, groupID)
}

// ViewSharedCourse resolves a pointer and reads the course live from the
// sharer's store.
func (s *AggregationService) ViewSharedCourse(ctx context.Context, groupID, shareID, viewerID string) (domain.SharedCourseView, error) {
	share, err := s.repo.GetCourseShare(ctx, shareID)
	if err != nil {
		return domain.SharedCourseView{}, err
	}
	if share.GroupID != groupID {
		return domain.SharedCourseView{}, apperr.NotFound("shared course", shareID)
	}
	if _, err := s.groups.GetGroup(ctx, groupID, viewerID); err != nil {
		return domain.SharedCourseView{}, err
	}

	problems, err := s.GetSharedCourseProblems(ctx, share.SharedBy, share.CourseID)
	if err != nil {
		return domain.SharedCourseView{}, err
	}
	return domain.SharedCourseView{Share: share, Problems: problems}, nil
}

// GetSharedCourseProblems walks topics, questions and solutions of one
// owner's course. Topic and question reads fan out concurrently; the result
// keeps topic order, then question order, both newest first.
func (s *AggregationService) GetSharedCourseProblems(ctx context.Context, ownerID, courseID string) ([]domain.ProblemWithSolutions, error) {
	start := time.Now()

	topics, err := s.content.ListTopics(ctx, ownerID, courseID)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return []domain.ProblemWithSolutions{}, nil
	}

	perTopic := make([][]contentdomain.Question, len(topics))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, t := range topics {
		g.Go(func() error {
			qs, err := s.content.ListQuestions(gctx, ownerID, t.ID)
			if err != nil {
				return err
			}
			perTopic[i] = qs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.ProblemWithSolutions, 0)
	for i, qs := range perTopic {
		for _, q := range qs {
			out = append(out, domain.ProblemWithSolutions{Question: q, TopicName: topics[i].Name})
		}
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range out {
		g.Go(func() error {
			sols, err := s.content.ListSolutions(gctx, ownerID, out[i].ID)
			if err != nil {
				return err
			}
			out[i].Solutions = sols
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.AggregationLatency.Observe(time.Since(start).Seconds())
	metrics.AggregatedProblems.Observe(float64(len(out)))
	return out, nil
}
