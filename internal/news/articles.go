package news

import (
	"context"
	"net/url"

	"github.com/shaibs3/ncnews/internal/apierr"
	"github.com/shaibs3/ncnews/internal/db_model"
	"github.com/shaibs3/ncnews/internal/format"
	"github.com/shaibs3/ncnews/internal/query"
	"github.com/shaibs3/ncnews/internal/store"
	"github.com/shaibs3/ncnews/internal/store/shared"
	"github.com/shaibs3/ncnews/internal/validate"
	"go.uber.org/zap"
)

const (
	defaultSortBy = "created_at"
	defaultOrder  = query.Desc
)

// ArticleList is one page of articles and the number of matches before paging.
type ArticleList struct {
	Articles   []format.ArticleView `json:"articles"`
	TotalCount int                  `json:"total_count"`
}

type newArticleBody struct {
	Author *string `json:"author" validate:"required"`
	Title  *string `json:"title" validate:"required"`
	Body   *string `json:"body" validate:"required"`
	Topic  *string `json:"topic" validate:"required"`
}

// ListArticles validates sort_by, order, limit and p (in that order), then
// returns the requested page filtered by topic and author.
func (s *Service) ListArticles(ctx context.Context, params url.Values) (ArticleList, error) {
	opts := store.ArticleListOpts{
		Topic:  params.Get("topic"),
		Author: params.Get("author"),
		SortBy: defaultSortBy,
		Order:  defaultOrder,
	}
	if params.Has("sort_by") {
		opts.SortBy = params.Get("sort_by")
		if !shared.IsArticleSortColumn(opts.SortBy) {
			return ArticleList{}, apierr.New(apierr.InvalidSortColumn)
		}
	}
	if params.Has("order") {
		dir, ok := query.ParseDirection(params.Get("order"))
		if !ok {
			return ArticleList{}, apierr.New(apierr.InvalidOrderValue)
		}
		opts.Order = dir
	}
	limit, offset, err := page(params)
	if err != nil {
		return ArticleList{}, err
	}
	opts.Limit, opts.Offset = limit, offset

	rows, total, err := s.store.ListArticles(ctx, opts)
	if err != nil {
		return ArticleList{}, apierr.Classify(err)
	}

	if total == 0 && opts.Topic != "" {
		exists, err := s.store.TopicExists(ctx, opts.Topic)
		if err != nil {
			return ArticleList{}, apierr.Classify(err)
		}
		if !exists {
			return ArticleList{}, apierr.New(apierr.ArticlesNotFound)
		}
	}

	views, err := format.ArticleRows(rows)
	if err != nil {
		return ArticleList{}, apierr.Wrap(apierr.Internal, err)
	}
	return ArticleList{Articles: views, TotalCount: total}, nil
}

func (s *Service) GetArticle(ctx context.Context, id int64) (format.ArticleView, error) {
	row, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return format.ArticleView{}, fail(err, apierr.ArticleNotFound)
	}
	view, err := format.ArticleRow(row)
	if err != nil {
		return format.ArticleView{}, apierr.Wrap(apierr.Internal, err)
	}
	return view, nil
}

// CreateArticle checks the author and topic exist before inserting, then
// returns the stored article.
func (s *Service) CreateArticle(ctx context.Context, body []byte) (format.ArticleView, error) {
	var in newArticleBody
	if res := validate.Exact(body, &in); !res.OK() {
		return format.ArticleView{}, apierr.Wrap(apierr.InvalidBody, res)
	}

	ok, err := s.store.UserExists(ctx, *in.Author)
	if err != nil {
		return format.ArticleView{}, apierr.Classify(err)
	}
	if !ok {
		return format.ArticleView{}, apierr.New(apierr.InvalidAuthor)
	}
	ok, err = s.store.TopicExists(ctx, *in.Topic)
	if err != nil {
		return format.ArticleView{}, apierr.Classify(err)
	}
	if !ok {
		return format.ArticleView{}, apierr.New(apierr.InvalidTopic)
	}

	id, err := s.store.InsertArticle(ctx, db_model.NewArticle{
		Title:  *in.Title,
		Body:   *in.Body,
		Topic:  *in.Topic,
		Author: *in.Author,
	})
	if err != nil {
		return format.ArticleView{}, apierr.Classify(err)
	}
	s.logger.Debug("article created", zap.Int64("article_id", id), zap.String("author", *in.Author))
	return s.GetArticle(ctx, id)
}

// UpdateArticleVotes adds inc_votes to the article's votes. An empty body
// fails with EmptyBody carrying the unchanged article.
func (s *Service) UpdateArticleVotes(ctx context.Context, id int64, body []byte) (format.ArticleView, error) {
	if validate.IsEmpty(body) {
		current, err := s.GetArticle(ctx, id)
		if err != nil {
			return format.ArticleView{}, err
		}
		return format.ArticleView{}, apierr.WithResource(apierr.EmptyBody, current)
	}

	delta, err := decodeVotes(body)
	if err != nil {
		return format.ArticleView{}, err
	}
	if err := s.store.IncrementArticleVotes(ctx, id, delta); err != nil {
		return format.ArticleView{}, fail(err, apierr.ArticleNotFound)
	}
	return s.GetArticle(ctx, id)
}

// DeleteArticle removes the article and its comments, returning the deleted row.
func (s *Service) DeleteArticle(ctx context.Context, id int64) (format.ArticleView, error) {
	row, err := s.store.DeleteArticle(ctx, id)
	if err != nil {
		return format.ArticleView{}, fail(err, apierr.ArticleNotFound)
	}
	s.logger.Debug("article deleted", zap.Int64("article_id", id))
	view, err := format.ArticleRow(row)
	if err != nil {
		return format.ArticleView{}, apierr.Wrap(apierr.Internal, err)
	}
	return view, nil
}
