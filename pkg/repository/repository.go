package repository

import (
	"context"

	"github.com/qalamdan/porsesh/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

type QuestionRepo interface {
	CreateQuestion(ctx context.Context, q *models.Question) (int64, error)
	GetQuestionByID(ctx context.Context, id int64) (*models.Question, error)
	// ListQuestions returns published-or-visible questions for the given
	// viewer (nil for anonymous), newest first. categoryID and tag filter
	// when non-zero/non-empty.
	ListQuestions(ctx context.Context, viewer *models.User, categoryID int64, tag string, limit, offset int) ([]models.Question, error)
	CountQuestions(ctx context.Context, viewer *models.User, categoryID int64, tag string) (int64, error)
	TagQuestion(ctx context.Context, questionID int64, tagIDs []int64) error
	// IsSolved reports whether any answer of the question is marked correct.
	IsSolved(ctx context.Context, questionID int64) (bool, error)
}

type AnswerRepo interface {
	CreateAnswer(ctx context.Context, a *models.Answer) (int64, error)
	GetAnswerByID(ctx context.Context, id int64) (*models.Answer, error)
	ListAnswersByQuestion(ctx context.Context, viewer *models.User, questionID int64) ([]models.Answer, error)
}

type CommentRepo interface {
	CreateComment(ctx context.Context, c *models.Comment) (int64, error)
	GetCommentByID(ctx context.Context, id int64) (*models.Comment, error)
	ListComments(ctx context.Context, viewer *models.User, kind models.ContentKind, commentableID int64) ([]models.Comment, error)
}

type VoteRepo interface {
	GetVote(ctx context.Context, userID int64, kind models.ContentKind, votableID int64) (*models.Vote, error)
	CountVotes(ctx context.Context, kind models.ContentKind, votableID int64) (up int64, down int64, err error)
}

type MarkRepo interface {
	GetMark(ctx context.Context, answerID, markerID int64) (*models.CorrectnessMark, error)
	ListMarksByAnswer(ctx context.Context, answerID int64) ([]models.CorrectnessMark, error)
	CountMarksByMarker(ctx context.Context, markerID int64) (int64, error)
}

type TaxonomyRepo interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTagByName(ctx context.Context, name string) (*models.Tag, error)
	CreateTag(ctx context.Context, name string) (int64, error)
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *models.Notification) (int64, error)
	ListNotificationsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID int64) error
}
