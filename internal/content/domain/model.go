package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Collection names a per-user content collection.
type Collection string

const (
	Courses   Collection = "courses"
	Topics    Collection = "topics"
	Questions Collection = "questions"
	Solutions Collection = "solutions"
)

// Collections lists every collection, parents before children.
var Collections = []Collection{Courses, Topics, Questions, Solutions}

func ParseCollection(s string) (Collection, bool) {
	for _, c := range Collections {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Field names used as filter keys and document fields.
const (
	FieldCourseID   = "courseId"
	FieldTopicID    = "topicId"
	FieldQuestionID = "questionId"

	FieldID        = "id"
	FieldOwnerID   = "ownerId"
	FieldCreatedAt = "createdAt"
)

// ParentField returns the field linking items of c to their parent, or "" for courses.
func (c Collection) ParentField() string {
	switch c {
	case Topics:
		return FieldCourseID
	case Questions:
		return FieldTopicID
	case Solutions:
		return FieldQuestionID
	}
	return ""
}

// Parent returns the parent collection of c.
func (c Collection) Parent() (Collection, bool) {
	switch c {
	case Topics:
		return Courses, true
	case Questions:
		return Topics, true
	case Solutions:
		return Questions, true
	}
	return "", false
}

// Item is a schemaless document in a user's content store.
type Item struct {
	ID         string                 `json:"id"`
	OwnerID    string                 `json:"ownerId"`
	Collection Collection             `json:"-"`
	Fields     map[string]interface{} `json:"fields"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// String returns the string value of a field, or "".
func (it Item) String(field string) string {
	if v, ok := it.Fields[field].(string); ok {
		return v
	}
	return ""
}

// Filter is an optional equality filter on one field.
type Filter struct {
	Field string
	Value string
}

func By(field, value string) Filter {
	return Filter{Field: field, Value: value}
}

func (f Filter) IsZero() bool { return f.Field == "" }

// Matches reports whether it satisfies the filter.
func (f Filter) Matches(it Item) bool {
	if f.IsZero() {
		return true
	}
	return fmt.Sprint(it.Fields[f.Field]) == f.Value
}

type SolutionKind string

const (
	KindText SolutionKind = "text"
	KindCode SolutionKind = "code"
)

type Course struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	Name       string    `json:"name"`
	ColorTheme string    `json:"colorTheme"`
	IconName   string    `json:"iconName"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Topic struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	CourseID  string    `json:"courseId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Question struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	TopicID   string    `json:"topicId"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	BodyText  string    `json:"bodyText"`
	CreatedAt time.Time `json:"createdAt"`
}

type Solution struct {
	ID         string       `json:"id"`
	OwnerID    string       `json:"ownerId"`
	QuestionID string       `json:"questionId"`
	Kind       SolutionKind `json:"kind"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Decode converts an Item into one of the typed entities.
func Decode[T any](it Item) (T, error) {
	var out T
	m := make(map[string]interface{}, len(it.Fields)+3)
	for k, v := range it.Fields {
		m[k] = v
	}
	m[FieldID] = it.ID
	m[FieldOwnerID] = it.OwnerID
	m[FieldCreatedAt] = it.CreatedAt

	b, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("encode %s item: %w", it.Collection, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode %s item: %w", it.Collection, err)
	}
	return out, nil
}

// DecodeAll decodes every item, failing on the first bad one.
func DecodeAll[T any](items []Item) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		v, err := Decode[T](it)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// StripReserved removes store-owned keys from caller-supplied fields.
func StripReserved(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch k {
		case FieldID, FieldOwnerID, FieldCreatedAt:
			continue
		}
		out[k] = v
	}
	return out
}
