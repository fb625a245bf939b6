package news

import (
	"context"
	"net/url"

	"github.com/shaibs3/ncnews/internal/apierr"
	"github.com/shaibs3/ncnews/internal/db_model"
	"github.com/shaibs3/ncnews/internal/format"
	"github.com/shaibs3/ncnews/internal/store"
	"github.com/shaibs3/ncnews/internal/validate"
	"go.uber.org/zap"
)

// CommentList is one page of an article's comments and the article's comment total.
type CommentList struct {
	Comments   []format.CommentView `json:"comments"`
	TotalCount int                  `json:"total_count"`
}

type newCommentBody struct {
	Username *string `json:"username" validate:"required"`
	Body     *string `json:"body" validate:"required"`
}

func (s *Service) ListComments(ctx context.Context, articleID int64, params url.Values) (CommentList, error) {
	limit, offset, err := page(params)
	if err != nil {
		return CommentList{}, err
	}

	total, err := s.store.CountComments(ctx, articleID)
	if err != nil {
		return CommentList{}, apierr.Classify(err)
	}
	if total == 0 {
		if _, err := s.store.GetArticle(ctx, articleID); err != nil {
			return CommentList{}, fail(err, apierr.ArticleNotFound)
		}
		return CommentList{Comments: []format.CommentView{}, TotalCount: 0}, nil
	}

	rows, err := s.store.ListComments(ctx, articleID, store.CommentListOpts{Limit: limit, Offset: offset})
	if err != nil {
		return CommentList{}, apierr.Classify(err)
	}
	return CommentList{Comments: format.CommentRows(rows), TotalCount: total}, nil
}

// CreateComment checks the article and then the username before inserting.
// A foreign key failure from a concurrent delete still classifies as not found.
func (s *Service) CreateComment(ctx context.Context, articleID int64, body []byte) (format.CommentView, error) {
	var in newCommentBody
	if res := validate.Exact(body, &in); !res.OK() {
		return format.CommentView{}, apierr.Wrap(apierr.InvalidBody, res)
	}

	if _, err := s.store.GetArticle(ctx, articleID); err != nil {
		return format.CommentView{}, fail(err, apierr.ArticleNotFound)
	}
	ok, err := s.store.UserExists(ctx, *in.Username)
	if err != nil {
		return format.CommentView{}, apierr.Classify(err)
	}
	if !ok {
		return format.CommentView{}, apierr.New(apierr.UsernameNotFound)
	}

	row, err := s.store.InsertComment(ctx, db_model.NewComment{
		ArticleID: articleID,
		Author:    *in.Username,
		Body:      *in.Body,
	})
	if err != nil {
		return format.CommentView{}, apierr.Classify(err)
	}
	s.logger.Debug("comment created", zap.Int64("comment_id", row.CommentID), zap.Int64("article_id", articleID))
	return format.CommentRow(row), nil
}

// UpdateCommentVotes adds inc_votes to the comment's votes. An empty body
// fails with EmptyBody carrying the unchanged comment.
func (s *Service) UpdateCommentVotes(ctx context.Context, id int64, body []byte) (format.CommentView, error) {
	if validate.IsEmpty(body) {
		row, err := s.store.GetComment(ctx, id)
		if err != nil {
			return format.CommentView{}, fail(err, apierr.CommentNotFound)
		}
		return format.CommentView{}, apierr.WithResource(apierr.EmptyBody, format.CommentRow(row))
	}

	delta, err := decodeVotes(body)
	if err != nil {
		return format.CommentView{}, err
	}
	row, err := s.store.IncrementCommentVotes(ctx, id, delta)
	if err != nil {
		return format.CommentView{}, fail(err, apierr.CommentNotFound)
	}
	return format.CommentRow(row), nil
}

func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return fail(err, apierr.CommentNotFound)
	}
	s.logger.Debug("comment deleted", zap.Int64("comment_id", id))
	return nil
}
