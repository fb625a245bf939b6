package news

import (
	"context"
	"testing"

	"github.com/shaibs3/ncnews/internal/apierr"
	"github.com/shaibs3/ncnews/internal/db_model"
	"github.com/stretchr/testify/require"
)

func TestCreateTopic(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	topic, err := svc.CreateTopic(ctx, []byte(`{"slug":"dogs","description":"Not cats"}`))
	require.NoError(t, err)
	require.Equal(t, db_model.Topic{Slug: "dogs", Description: "Not cats"}, topic)

	topics, err := svc.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 4)

	_, err = svc.CreateTopic(ctx, []byte(`{"slug":"cats","description":"Not dogs"}`))
	requireKind(t, err, apierr.AlreadyExists)

	for _, body := range []string{`{"slug":"birds"}`, `{"slug":1,"description":"x"}`, `{"slug":"a","description":"b","c":"d"}`, `[]`} {
		_, err = svc.CreateTopic(ctx, []byte(body))
		requireKind(t, err, apierr.InvalidBody)
	}
}

func TestUsers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)

	u, err := svc.GetUser(ctx, "butter_bridge")
	require.NoError(t, err)
	require.Equal(t, "butter_bridge", u.Username)

	_, err = svc.GetUser(ctx, "nobody")
	requireKind(t, err, apierr.UserNotFound)

	articles, err := svc.ListArticlesByUser(ctx, "butter_bridge")
	require.NoError(t, err)
	require.Len(t, articles, 4)
	for _, a := range articles {
		require.Equal(t, "butter_bridge", a.Author)
	}

	articles, err = svc.ListArticlesByUser(ctx, "lurker")
	require.NoError(t, err)
	require.Empty(t, articles)

	_, err = svc.ListArticlesByUser(ctx, "nobody")
	requireKind(t, err, apierr.UserNotFound)
}
