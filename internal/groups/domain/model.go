package domain

import "time"

// InviteAlphabet omits 0, O, 1 and I.
const InviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const InviteCodeLength = 6

type Member struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joinedAt"`
}

type Group struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CreatorID       string    `json:"creatorId"`
	CreatorUsername string    `json:"creatorUsername"`
	InviteCode      string    `json:"inviteCode"`
	Members         []Member  `json:"members"`
	CreatedAt       time.Time `json:"createdAt"`
}

// HasMember reports whether userID is a member or the creator.
func (g Group) HasMember(userID string) bool {
	if userID == "" {
		return false
	}
	if g.CreatorID == userID {
		return true
	}
	return g.memberIndex(userID) >= 0
}

// AddMember appends m unless a member with the same user id exists.
func (g *Group) AddMember(m Member) bool {
	if g.memberIndex(m.UserID) >= 0 {
		return false
	}
	g.Members = append(g.Members, m)
	return true
}

// RemoveMember drops userID from the member list.
func (g *Group) RemoveMember(userID string) bool {
	i := g.memberIndex(userID)
	if i < 0 {
		return false
	}
	g.Members = append(g.Members[:i], g.Members[i+1:]...)
	return true
}

// MemberIDs returns the creator and every member, without duplicates.
func (g Group) MemberIDs() []string {
	seen := map[string]bool{}
	var out []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	add(g.CreatorID)
	for _, m := range g.Members {
		add(m.UserID)
	}
	return out
}

func (g Group) memberIndex(userID string) int {
	for i, m := range g.Members {
		if m.UserID == userID {
			return i
		}
	}
	return -1
}

// GroupCourseShare points at a course in the sharer's own content store.
// Nothing is copied.
type GroupCourseShare struct {
	ID               string    `json:"id"`
	GroupID          string    `json:"groupId"`
	CourseID         string    `json:"courseId"`
	CourseName       string    `json:"courseName"`
	SharedBy         string    `json:"sharedBy"`
	SharedByUsername string    `json:"sharedByUsername"`
	SharedAt         time.Time `json:"sharedAt"`
}

// GroupView is what a live group subscription delivers.
type GroupView struct {
	Group   *Group             `json:"group"`
	Courses []GroupCourseShare `json:"courses"`
}
