package store

import (
	"context"

	"github.com/shaibs3/ncnews/internal/db_model"
)

type DbProvider interface {
	// ListArticles returns one page of matching articles and the number of
	// matching articles before pagination.
	ListArticles(ctx context.Context, opts ArticleListOpts) ([]db_model.Article, int, error)
	GetArticle(ctx context.Context, id int64) (db_model.Article, error)
	InsertArticle(ctx context.Context, article db_model.NewArticle) (int64, error)
	// IncrementArticleVotes adds delta to the article's votes in one statement.
	IncrementArticleVotes(ctx context.Context, id int64, delta int) error
	// DeleteArticle removes the article and, through the cascade, its comments.
	DeleteArticle(ctx context.Context, id int64) (db_model.Article, error)

	CountComments(ctx context.Context, articleID int64) (int, error)
	ListComments(ctx context.Context, articleID int64, opts CommentListOpts) ([]db_model.Comment, error)
	GetComment(ctx context.Context, id int64) (db_model.Comment, error)
	InsertComment(ctx context.Context, comment db_model.NewComment) (db_model.Comment, error)
	IncrementCommentVotes(ctx context.Context, id int64, delta int) (db_model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	ListTopics(ctx context.Context) ([]db_model.Topic, error)
	TopicExists(ctx context.Context, slug string) (bool, error)
	InsertTopic(ctx context.Context, topic db_model.Topic) (db_model.Topic, error)

	ListUsers(ctx context.Context) ([]db_model.User, error)
	GetUser(ctx context.Context, username string) (db_model.User, error)
	UserExists(ctx context.Context, username string) (bool, error)

	Close() error
}
