package repository

import (
	"testing"
	"time"

	"github.com/devstudy/devstudy-backend/internal/content/domain"
	"github.com/stretchr/testify/assert"
)

func TestFromData_MapsLegacyWebClientFields(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	stamped := time.Date(2024, 6, 1, 8, 0, 5, 0, time.UTC)

	tests := []struct {
		name string
		col  domain.Collection
		data map[string]interface{}
		want map[string]string
	}{
		{
			name: "course",
			col:  domain.Courses,
			data: map[string]interface{}{"name": "DSA", "gradient": "from-blue", "icon": "Code"},
			want: map[string]string{"name": "DSA", "colorTheme": "from-blue", "iconName": "Code"},
		},
		{
			name: "topic",
			col:  domain.Topics,
			data: map[string]interface{}{"name": "Graphs", "course": "c1"},
			want: map[string]string{"name": "Graphs", domain.FieldCourseID: "c1"},
		},
		{
			name: "question",
			col:  domain.Questions,
			data: map[string]interface{}{"topicId": "t1", "title": "BFS", "problemText": "shortest path", "course": "c1"},
			want: map[string]string{domain.FieldTopicID: "t1", "title": "BFS", "bodyText": "shortest path", domain.FieldCourseID: "c1"},
		},
		{
			name: "solution",
			col:  domain.Solutions,
			data: map[string]interface{}{"questionId": "q1", "content": "use a queue", "type": "text"},
			want: map[string]string{domain.FieldQuestionID: "q1", "content": "use a queue", "kind": "text"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := map[string]interface{}{"userId": "alice", "timestamp": stamped}
			for k, v := range tc.data {
				data[k] = v
			}

			it := fromData("alice", tc.col, "doc1", created, data)

			assert.Equal(t, "doc1", it.ID)
			assert.Equal(t, "alice", it.OwnerID)
			assert.Equal(t, stamped, it.CreatedAt)
			assert.Len(t, it.Fields, len(tc.want))
			for k, v := range tc.want {
				assert.Equal(t, v, it.String(k), k)
			}
		})
	}
}

func TestFromData_CurrentNamesWin(t *testing.T) {
	it := fromData("alice", domain.Topics, "t1", time.Time{}, map[string]interface{}{
		"courseId": "new",
		"course":   "old",
	})
	assert.Equal(t, "new", it.String(domain.FieldCourseID))
	assert.NotContains(t, it.Fields, "course")
}

func TestFromData_CreatedAtFallsBackToCreateTime(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	it := fromData("alice", domain.Courses, "c1", created, map[string]interface{}{"name": "DSA"})
	assert.Equal(t, created, it.CreatedAt)

	explicit := created.Add(time.Hour)
	it = fromData("alice", domain.Courses, "c1", created, map[string]interface{}{
		"name":      "DSA",
		"createdAt": explicit,
		"timestamp": created,
	})
	assert.Equal(t, explicit, it.CreatedAt)
}

func TestFilterFields_IncludesLegacyAliases(t *testing.T) {
	assert.ElementsMatch(t, []string{"courseId", "course"}, filterFields(domain.Topics, domain.FieldCourseID))
	assert.ElementsMatch(t, []string{"courseId", "course"}, filterFields(domain.Questions, domain.FieldCourseID))
	assert.Equal(t, []string{"topicId"}, filterFields(domain.Questions, domain.FieldTopicID))
	assert.Equal(t, []string{"questionId"}, filterFields(domain.Solutions, domain.FieldQuestionID))
}
