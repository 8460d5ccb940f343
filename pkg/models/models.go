package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Role         string `json:"role" db:"role"`
	Level        int    `json:"level" db:"level"`
	Score        int64  `json:"score" db:"score"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// ContentKind discriminates the polymorphic votable/commentable targets.
type ContentKind string

const (
	KindQuestion ContentKind = "question"
	KindAnswer   ContentKind = "answer"
	KindComment  ContentKind = "comment"
)

// Valid reports whether k is one of the known content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindQuestion, KindAnswer, KindComment:
		return true
	}
	return false
}

type Question struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	CategoryID  *int64 `json:"category_id,omitempty" db:"category_id"`
	Title       string `json:"title" db:"title"`
	Body        string `json:"body" db:"body"`
	Published   bool   `json:"published" db:"published"`
	PublishedAt *int64 `json:"published_at,omitempty" db:"published_at"`
	PublishedBy *int64 `json:"published_by,omitempty" db:"published_by"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}

type Answer struct {
	ID          int64  `json:"id" db:"id"`
	QuestionID  int64  `json:"question_id" db:"question_id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	Body        string `json:"body" db:"body"`
	IsCorrect   bool   `json:"is_correct" db:"is_correct"`
	Published   bool   `json:"published" db:"published"`
	PublishedAt *int64 `json:"published_at,omitempty" db:"published_at"`
	PublishedBy *int64 `json:"published_by,omitempty" db:"published_by"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}

type Comment struct {
	ID              int64       `json:"id" db:"id"`
	CommentableType ContentKind `json:"commentable_type" db:"commentable_type"`
	CommentableID   int64       `json:"commentable_id" db:"commentable_id"`
	UserID          int64       `json:"user_id" db:"user_id"`
	Body            string      `json:"body" db:"body"`
	Published       bool        `json:"published" db:"published"`
	PublishedAt     *int64      `json:"published_at,omitempty" db:"published_at"`
	PublishedBy     *int64      `json:"published_by,omitempty" db:"published_by"`
	Created         int64       `json:"created" db:"created"`
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (t VoteType) Valid() bool { return t == VoteUp || t == VoteDown }

type Vote struct {
	ID          int64       `json:"id" db:"id"`
	UserID      int64       `json:"user_id" db:"user_id"`
	VotableType ContentKind `json:"votable_type" db:"votable_type"`
	VotableID   int64       `json:"votable_id" db:"votable_id"`
	Type        VoteType    `json:"type" db:"type"`
	LastVotedAt int64       `json:"last_voted_at" db:"last_voted_at"`
}

// CorrectnessMark is one marker's opinion on an answer. At most one row
// exists per (answer, marker); toggling updates is_correct in place.
type CorrectnessMark struct {
	ID        int64 `json:"id" db:"id"`
	AnswerID  int64 `json:"answer_id" db:"answer_id"`
	MarkerID  int64 `json:"marker_id" db:"marker_id"`
	IsCorrect bool  `json:"is_correct" db:"is_correct"`
	Created   int64 `json:"created" db:"created"`
	Updated   int64 `json:"updated" db:"updated"`
}

type Category struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Slug     string `json:"slug" db:"slug"`
	ParentID *int64 `json:"parent_id,omitempty" db:"parent_id"`
}

type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Notification struct {
	ID      int64  `json:"id" db:"id"`
	UserID  int64  `json:"user_id" db:"user_id"`
	Kind    string `json:"kind" db:"kind"`
	Payload string `json:"payload" db:"payload"`
	Read    bool   `json:"read" db:"read"`
	Created int64  `json:"created" db:"created"`
}
