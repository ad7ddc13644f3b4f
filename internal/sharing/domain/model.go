package domain

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusViewed  Status = "viewed"
)

// QuestionSnapshot is the question as it looked when it was shared.
type QuestionSnapshot struct {
	Title       string `json:"title"`
	ProblemText string `json:"problemText"`
}

// SolutionSnapshot is one solution as it looked when it was shared.
type SolutionSnapshot struct {
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Share is an immutable point-to-point copy of a question and its solutions.
// Only Status and ViewedAt ever change after creation.
type Share struct {
	ID                string             `json:"id"`
	QuestionID        string             `json:"questionId"`
	QuestionData      QuestionSnapshot   `json:"questionData"`
	Solutions         []SolutionSnapshot `json:"solutions"`
	SenderID          string             `json:"senderId"`
	SenderUsername    string             `json:"senderUsername"`
	SenderEmail       string             `json:"senderEmail"`
	RecipientID       string             `json:"recipientId"`
	RecipientUsername string             `json:"recipientUsername"`
	CourseContext     string             `json:"courseContext"`
	TopicContext      string             `json:"topicContext"`
	Status            Status             `json:"status"`
	CreatedAt         time.Time          `json:"createdAt"`
	ViewedAt          *time.Time         `json:"viewedAt,omitempty"`
}

// InboxSnapshot is what a live inbox subscription delivers.
type InboxSnapshot struct {
	Shares []Share `json:"shares"`
	Unread int     `json:"unread"`
}
