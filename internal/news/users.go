package news

import (
	"context"

	"github.com/shaibs3/ncnews/internal/apierr"
	"github.com/shaibs3/ncnews/internal/db_model"
	"github.com/shaibs3/ncnews/internal/format"
	"github.com/shaibs3/ncnews/internal/store"
)

func (s *Service) ListUsers(ctx context.Context) ([]db_model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apierr.Classify(err)
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, username string) (db_model.User, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return db_model.User{}, fail(err, apierr.UserNotFound)
	}
	return user, nil
}

// ListArticlesByUser returns every article written by username, newest first.
func (s *Service) ListArticlesByUser(ctx context.Context, username string) ([]format.ArticleView, error) {
	ok, err := s.store.UserExists(ctx, username)
	if err != nil {
		return nil, apierr.Classify(err)
	}
	if !ok {
		return nil, apierr.New(apierr.UserNotFound)
	}
	rows, _, err := s.store.ListArticles(ctx, store.ArticleListOpts{
		Author: username,
		SortBy: defaultSortBy,
		Order:  defaultOrder,
	})
	if err != nil {
		return nil, apierr.Classify(err)
	}
	views, err := format.ArticleRows(rows)
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, err)
	}
	return views, nil
}
