package service

import (
	"context"
	"strings"

	"github.com/devstudy/devstudy-backend/internal/apperr"
	"github.com/devstudy/devstudy-backend/internal/content/domain"
	"github.com/devstudy/devstudy-backend/internal/content/repository"
	"github.com/devstudy/devstudy-backend/internal/htmlsanitize"
	"github.com/devstudy/devstudy-backend/internal/logger"
	"github.com/devstudy/devstudy-backend/internal/metrics"
	"github.com/rs/zerolog"
)

// ContentService handles course, topic, question and solution business logic
// on top of a Store.
type ContentService struct {
	store repository.Store
	log   zerolog.Logger
}

// NewContentService creates a new content service
func NewContentService(store repository.Store) *ContentService {
	return &ContentService{
		store: store,
		log:   logger.WithComponent("content"),
	}
}

type NewCourse struct {
	Name       string `json:"name"`
	ColorTheme string `json:"colorTheme"`
	IconName   string `json:"iconName"`
}

type NewQuestion struct {
	TopicID  string `json:"topicId"`
	Title    string `json:"title"`
	BodyText string `json:"bodyText"`
}

type NewSolution struct {
	QuestionID string              `json:"questionId"`
	Kind       domain.SolutionKind `json:"kind"`
	Content    string              `json:"content"`
}

// CreateCourse creates a course. Empty presets fall back to the first preset.
func (s *ContentService) CreateCourse(ctx context.Context, ownerID string, in NewCourse) (domain.Course, error) {
	name := htmlsanitize.PlainText(in.Name)
	if name == "" {
		return domain.Course{}, apperr.Validation("name", "course name is required")
	}

	theme := strings.TrimSpace(in.ColorTheme)
	if theme == "" {
		theme = domain.ColorThemes[0]
	} else if !domain.IsColorTheme(theme) {
		return domain.Course{}, apperr.Validation("colorTheme", "unknown color theme")
	}

	icon := strings.TrimSpace(in.IconName)
	if icon == "" {
		icon = domain.IconNames[0]
	} else if !domain.IsIconName(icon) {
		return domain.Course{}, apperr.Validation("iconName", "unknown icon")
	}

	it, err := s.store.Create(ctx, ownerID, domain.Courses, map[string]interface{}{
		"name":       name,
		"colorTheme": theme,
		"iconName":   icon,
	})
	if err != nil {
		return domain.Course{}, err
	}
	return domain.Decode[domain.Course](it)
}

// CreateTopic creates a topic under one of the owner's courses.
func (s *ContentService) CreateTopic(ctx context.Context, ownerID, courseID, name string) (domain.Topic, error) {
	name = htmlsanitize.PlainText(name)
	if name == "" {
		return domain.Topic{}, apperr.Validation("name", "topic name is required")
	}
	if strings.TrimSpace(courseID) == "" {
		return domain.Topic{}, apperr.Validation(domain.FieldCourseID, "course is required")
	}
	if _, err := s.GetCourse(ctx, ownerID, courseID); err != nil {
		return domain.Topic{}, err
	}

	it, err := s.store.Create(ctx, ownerID, domain.Topics, map[string]interface{}{
		domain.FieldCourseID: courseID,
		"name":               name,
	})
	if err != nil {
		return domain.Topic{}, err
	}
	return domain.Decode[domain.Topic](it)
}

// CreateQuestion creates a question under a topic. The course id is copied from the topic.
func (s *ContentService) CreateQuestion(ctx context.Context, ownerID string, in NewQuestion) (domain.Question, error) {
	title := htmlsanitize.PlainText(in.Title)
	if title == "" {
		return domain.Question{}, apperr.Validation("title", "question title is required")
	}
	body := htmlsanitize.PlainText(in.BodyText)
	if body == "" {
		return domain.Question{}, apperr.Validation("bodyText", "question text is required")
	}
	if strings.TrimSpace(in.TopicID) == "" {
		return domain.Question{}, apperr.Validation(domain.FieldTopicID, "topic is required")
	}

	topic, err := s.GetTopic(ctx, ownerID, in.TopicID)
	if err != nil {
		return domain.Question{}, err
	}

	it, err := s.store.Create(ctx, ownerID, domain.Questions, map[string]interface{}{
		domain.FieldTopicID:  topic.ID,
		domain.FieldCourseID: topic.CourseID,
		"title":              title,
		"bodyText":           body,
	})
	if err != nil {
		return domain.Question{}, err
	}
	return domain.Decode[domain.Question](it)
}

// CreateSolution attaches a solution to a question. Code is stored verbatim.
func (s *ContentService) CreateSolution(ctx context.Context, ownerID string, in NewSolution) (domain.Solution, error) {
	content := in.Content
	switch in.Kind {
	case domain.KindCode:
		if strings.TrimSpace(content) == "" {
			return domain.Solution{}, apperr.Validation("content", "solution content is required")
		}
	case domain.KindText:
		content = htmlsanitize.PlainText(content)
		if content == "" {
			return domain.Solution{}, apperr.Validation("content", "solution content is required")
		}
	default:
		return domain.Solution{}, apperr.Validation("kind", "kind must be text or code")
	}
	if strings.TrimSpace(in.QuestionID) == "" {
		return domain.Solution{}, apperr.Validation(domain.FieldQuestionID, "question is required")
	}
	if _, err := s.GetQuestion(ctx, ownerID, in.QuestionID); err != nil {
		return domain.Solution{}, err
	}

	it, err := s.store.Create(ctx, ownerID, domain.Solutions, map[string]interface{}{
		domain.FieldQuestionID: in.QuestionID,
		"kind":                 string(in.Kind),
		"content":              content,
	})
	if err != nil {
		return domain.Solution{}, err
	}
	return domain.Decode[domain.Solution](it)
}

func (s *ContentService) ListCourses(ctx context.Context, ownerID string) ([]domain.Course, error) {
	return list[domain.Course](ctx, s.store, ownerID, domain.Courses, domain.Filter{})
}

func (s *ContentService) ListTopics(ctx context.Context, ownerID, courseID string) ([]domain.Topic, error) {
	return list[domain.Topic](ctx, s.store, ownerID, domain.Topics, domain.By(domain.FieldCourseID, courseID))
}

func (s *ContentService) ListQuestions(ctx context.Context, ownerID, topicID string) ([]domain.Question, error) {
	return list[domain.Question](ctx, s.store, ownerID, domain.Questions, domain.By(domain.FieldTopicID, topicID))
}

func (s *ContentService) ListSolutions(ctx context.Context, ownerID, questionID string) ([]domain.Solution, error) {
	return list[domain.Solution](ctx, s.store, ownerID, domain.Solutions, domain.By(domain.FieldQuestionID, questionID))
}

func (s *ContentService) GetCourse(ctx context.Context, ownerID, id string) (domain.Course, error) {
	return get[domain.Course](ctx, s.store, ownerID, domain.Courses, id)
}

func (s *ContentService) GetTopic(ctx context.Context, ownerID, id string) (domain.Topic, error) {
	return get[domain.Topic](ctx, s.store, ownerID, domain.Topics, id)
}

func (s *ContentService) GetQuestion(ctx context.Context, ownerID, id string) (domain.Question, error) {
	return get[domain.Question](ctx, s.store, ownerID, domain.Questions, id)
}

func (s *ContentService) GetSolution(ctx context.Context, ownerID, id string) (domain.Solution, error) {
	return get[domain.Solution](ctx, s.store, ownerID, domain.Solutions, id)
}

// Delete removes an item of any collection together with its descendants.
func (s *ContentService) Delete(ctx context.Context, ownerID string, col domain.Collection, id string) error {
	// Children go first so a failed cascade can be retried from the parent.
	if child, ok := childOf(col); ok {
		kids, err := s.store.List(ctx, ownerID, child, domain.By(child.ParentField(), id))
		if err != nil {
			return err
		}
		for _, k := range kids {
			if err := s.Delete(ctx, ownerID, child, k.ID); err != nil {
				return err
			}
		}
	}
	return s.store.Delete(ctx, ownerID, col, id)
}

func (s *ContentService) DeleteCourse(ctx context.Context, ownerID, id string) error {
	return s.Delete(ctx, ownerID, domain.Courses, id)
}

func (s *ContentService) DeleteTopic(ctx context.Context, ownerID, id string) error {
	return s.Delete(ctx, ownerID, domain.Topics, id)
}

func (s *ContentService) DeleteQuestion(ctx context.Context, ownerID, id string) error {
	return s.Delete(ctx, ownerID, domain.Questions, id)
}

func (s *ContentService) DeleteSolution(ctx context.Context, ownerID, id string) error {
	return s.Delete(ctx, ownerID, domain.Solutions, id)
}

// SweepOrphans deletes topics, questions and solutions whose parent no longer
// exists, for every owner. It returns the number of removed items per collection.
func (s *ContentService) SweepOrphans(ctx context.Context) (map[domain.Collection]int, error) {
	owners, err := s.store.Owners(ctx)
	if err != nil {
		return nil, err
	}

	removed := make(map[domain.Collection]int)
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := s.sweepOwner(ctx, owner, removed); err != nil {
			return removed, err
		}
	}

	for col, n := range removed {
		metrics.OrphansSwept.WithLabelValues(string(col)).Add(float64(n))
	}
	s.log.Info().Int("owners", len(owners)).Interface("removed", removed).Msg("orphan sweep finished")
	return removed, nil
}

func (s *ContentService) sweepOwner(ctx context.Context, ownerID string, removed map[domain.Collection]int) error {
	// Collections go parent first so a removed topic orphans its questions
	// within the same pass. Inside one collection the children are read
	// before the parents: a parent always exists before its children, so a
	// child created concurrently is never judged against a stale parent list.
	for _, col := range domain.Collections {
		parent, ok := col.Parent()
		if !ok {
			continue
		}

		items, err := s.store.List(ctx, ownerID, col, domain.Filter{})
		if err != nil {
			return err
		}
		if len(items) == 0 {
			continue
		}

		parents, err := s.store.List(ctx, ownerID, parent, domain.Filter{})
		if err != nil {
			return err
		}
		alive := make(map[string]struct{}, len(parents))
		for _, p := range parents {
			alive[p.ID] = struct{}{}
		}

		for _, it := range items {
			parentID := it.String(col.ParentField())
			if parentID == "" {
				s.log.Warn().Str("owner_id", ownerID).Str("collection", string(col)).Str("id", it.ID).Msg("item has no parent reference, skipped")
				continue
			}
			if _, ok := alive[parentID]; ok {
				continue
			}
			if err := s.store.Delete(ctx, ownerID, col, it.ID); err != nil {
				return err
			}
			removed[col]++
			s.log.Debug().Str("owner_id", ownerID).Str("collection", string(col)).Str("id", it.ID).Msg("removed orphan")
		}
	}
	return nil
}

func childOf(col domain.Collection) (domain.Collection, bool) {
	for _, c := range domain.Collections {
		if p, ok := c.Parent(); ok && p == col {
			return c, true
		}
	}
	return "", false
}

func list[T any](ctx context.Context, store repository.Store, ownerID string, col domain.Collection, f domain.Filter) ([]T, error) {
	items, err := store.List(ctx, ownerID, col, f)
	if err != nil {
		return nil, err
	}
	return domain.DecodeAll[T](items)
}

func get[T any](ctx context.Context, store repository.Store, ownerID string, col domain.Collection, id string) (T, error) {
	var zero T
	it, ok, err := store.Get(ctx, ownerID, col, id)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, apperr.NotFound(strings.TrimSuffix(string(col), "s"), id)
	}
	return domain.Decode[T](it)
}
