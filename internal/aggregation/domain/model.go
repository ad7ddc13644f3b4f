package domain

import (
	contentdomain "github.com/devstudy/devstudy-backend/internal/content/domain"
	groupdomain "github.com/devstudy/devstudy-backend/internal/groups/domain"
)

// ProblemWithSolutions is one question of a shared course, flattened with
// its topic name and solutions.
type ProblemWithSolutions struct {
	contentdomain.Question
	TopicName string                   `json:"topicName"`
	Solutions []contentdomain.Solution `json:"solutions"`
}

// SharedCourseView is a group member's read-only view of a shared course.
type SharedCourseView struct {
	Share    groupdomain.GroupCourseShare `json:"share"`
	Problems []ProblemWithSolutions       `json:"problems"`
}
