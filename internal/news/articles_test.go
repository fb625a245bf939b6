package news

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"testing"

	"github.com/shaibs3/ncnews/internal/apierr"
	"github.com/shaibs3/ncnews/internal/format"
	"github.com/shaibs3/ncnews/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	params, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return params
}

func TestListArticles_Defaults(t *testing.T) {
	svc, _ := newTestService(t)

	list, err := svc.ListArticles(context.Background(), url.Values{})
	require.NoError(t, err)
	require.Equal(t, 13, list.TotalCount)
	require.Len(t, list.Articles, 10)
	assert.Equal(t, int64(3), list.Articles[0].ArticleID)
	assert.True(t, sort.SliceIsSorted(list.Articles, func(i, j int) bool {
		return list.Articles[i].CreatedAt > list.Articles[j].CreatedAt
	}))
}

func TestListArticles_SortsByEveryColumn(t *testing.T) {
	svc, _ := newTestService(t)

	for _, col := range []string{"article_id", "title", "votes", "body", "topic", "author", "created_at", "comment_count"} {
		for _, order := range []string{"asc", "desc"} {
			t.Run(col+" "+order, func(t *testing.T) {
				list, err := svc.ListArticles(context.Background(), mustQuery(t, "limit=20&sort_by="+col+"&order="+order))
				require.NoError(t, err)
				require.Len(t, list.Articles, 13)
				key := func(a format.ArticleView) string {
					switch col {
					case "title":
						return a.Title
					case "body":
						return a.Body
					case "topic":
						return a.Topic
					case "author":
						return a.Author
					case "created_at":
						return a.CreatedAt
					}
					return ""
				}
				num := func(a format.ArticleView) int64 {
					switch col {
					case "votes":
						return int64(a.Votes)
					case "comment_count":
						return int64(a.CommentCount)
					}
					return a.ArticleID
				}
				for i := 1; i < len(list.Articles); i++ {
					prev, cur := list.Articles[i-1], list.Articles[i]
					if order == "desc" {
						prev, cur = cur, prev
					}
					assert.LessOrEqual(t, key(prev), key(cur))
					if key(prev) == key(cur) {
						assert.LessOrEqual(t, num(prev), num(cur))
					}
				}
			})
		}
	}
}

func TestListArticles_PaginationOffsets(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	full, err := svc.ListArticles(ctx, mustQuery(t, "limit=100&sort_by=article_id&order=asc"))
	require.NoError(t, err)

	for _, tc := range []struct{ limit, page int }{{2, 1}, {2, 2}, {3, 4}, {5, 3}, {4, 5}} {
		list, err := svc.ListArticles(ctx, url.Values{
			"sort_by": {"article_id"},
			"order":   {"asc"},
			"limit":   {strconv.Itoa(tc.limit)},
			"p":       {strconv.Itoa(tc.page)},
		})
		require.NoError(t, err)
		require.Equal(t, 13, list.TotalCount)
		require.LessOrEqual(t, len(list.Articles), tc.limit)

		offset := tc.limit * (tc.page - 1)
		if offset < len(full.Articles) {
			require.NotEmpty(t, list.Articles)
			require.Equal(t, full.Articles[offset].ArticleID, list.Articles[0].ArticleID)
		} else {
			require.Empty(t, list.Articles)
		}
	}
}

func TestListArticles_Filters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.ListArticles(ctx, mustQuery(t, "topic=cats"))
	require.NoError(t, err)
	require.Equal(t, 1, list.TotalCount)
	require.Equal(t, "cats", list.Articles[0].Topic)
	require.Equal(t, 2, list.Articles[0].CommentCount)

	list, err = svc.ListArticles(ctx, mustQuery(t, "topic=mitch&author=butter_bridge&limit=20"))
	require.NoError(t, err)
	require.Equal(t, 4, list.TotalCount)
	for _, a := range list.Articles {
		require.Equal(t, "mitch", a.Topic)
		require.Equal(t, "butter_bridge", a.Author)
	}

	list, err = svc.ListArticles(ctx, mustQuery(t, "topic=paper"))
	require.NoError(t, err)
	require.Zero(t, list.TotalCount)
	require.NotNil(t, list.Articles)
	require.Empty(t, list.Articles)

	_, err = svc.ListArticles(ctx, mustQuery(t, "topic=not-a-topic"))
	requireKind(t, err, apierr.ArticlesNotFound)

	list, err = svc.ListArticles(ctx, mustQuery(t, "author=nobody"))
	require.NoError(t, err)
	require.Zero(t, list.TotalCount)
	require.Empty(t, list.Articles)
}

func TestListArticles_InvalidQueries(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		query string
		kind  apierr.Kind
	}{
		{"sort_by=not_a_column", apierr.InvalidSortColumn},
		{"sort_by=", apierr.InvalidSortColumn},
		{"sort_by=votes;DROP TABLE articles", apierr.InvalidSortColumn},
		{"order=sideways", apierr.InvalidOrderValue},
		{"order=", apierr.InvalidOrderValue},
		{"limit=ten", apierr.InvalidQueryType},
		{"p=5four", apierr.InvalidQueryType},
		// sort_by is checked before order, order before paging
		{"sort_by=nope&order=nope&limit=nope", apierr.InvalidSortColumn},
		{"order=nope&limit=nope", apierr.InvalidOrderValue},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, err := svc.ListArticles(context.Background(), mustQuery(t, tt.query))
			requireKind(t, err, tt.kind)
		})
	}
}

func TestListArticles_HugePagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ListArticles(ctx, mustQuery(t, "limit=4611686018427387904&p=3"))
	requireKind(t, err, apierr.InvalidQueryType)

	list, err := svc.ListArticles(ctx, mustQuery(t, "limit=9223372036854775807&p=2"))
	require.NoError(t, err)
	require.Equal(t, 13, list.TotalCount)
	require.Empty(t, list.Articles)

	comments, err := svc.ListComments(ctx, 1, mustQuery(t, "limit=4611686018427387904&p=3"))
	requireKind(t, err, apierr.InvalidQueryType)
	require.Empty(t, comments.Comments)
}

func TestListArticles_EmptyStore(t *testing.T) {
	svc := NewService(store.NewInMemoryProvider(), zap.NewNop())

	list, err := svc.ListArticles(context.Background(), url.Values{})
	require.NoError(t, err)
	require.Zero(t, list.TotalCount)
	require.Empty(t, list.Articles)
}

func TestGetArticle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.GetArticle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, format.ArticleView{
		Author:       "butter_bridge",
		Title:        "Living in the shadow of a great man",
		ArticleID:    1,
		Body:         "I find this existence challenging",
		Topic:        "mitch",
		CreatedAt:    "2020-07-09 21:11:00",
		Votes:        100,
		CommentCount: 11,
	}, a)

	a, err = svc.GetArticle(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, a.CommentCount)

	_, err = svc.GetArticle(ctx, 9999)
	requireKind(t, err, apierr.ArticleNotFound)
}

func TestCreateArticle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateArticle(ctx, []byte(`{"author":"lurker","title":"Dogs","body":"Mostly good","topic":"paper"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(14), a.ArticleID)
	assert.Equal(t, "lurker", a.Author)
	assert.Equal(t, "paper", a.Topic)
	assert.Zero(t, a.Votes)
	assert.Zero(t, a.CommentCount)
	assert.NotEmpty(t, a.CreatedAt)
}

func TestCreateArticle_Rejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		body string
		kind apierr.Kind
	}{
		{"unknown author", `{"author":"nobody","title":"t","body":"b","topic":"cats"}`, apierr.InvalidAuthor},
		{"unknown topic", `{"author":"lurker","title":"t","body":"b","topic":"dogs"}`, apierr.InvalidTopic},
		{"author checked first", `{"author":"nobody","title":"t","body":"b","topic":"dogs"}`, apierr.InvalidAuthor},
		{"missing key", `{"author":"lurker","title":"t","body":"b"}`, apierr.InvalidBody},
		{"extra key", `{"author":"lurker","title":"t","body":"b","topic":"cats","votes":5}`, apierr.InvalidBody},
		{"wrong type", `{"author":"lurker","title":7,"body":"b","topic":"cats"}`, apierr.InvalidBody},
		{"empty", ``, apierr.InvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateArticle(ctx, []byte(tt.body))
			requireKind(t, err, tt.kind)
		})
	}

	list, err := svc.ListArticles(ctx, url.Values{})
	require.NoError(t, err)
	require.Equal(t, 13, list.TotalCount)
}

func TestUpdateArticleVotes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.UpdateArticleVotes(ctx, 1, []byte(`{"inc_votes": 7}`))
	require.NoError(t, err)
	require.Equal(t, 107, a.Votes)

	a, err = svc.UpdateArticleVotes(ctx, 1, []byte(`{"inc_votes": -7}`))
	require.NoError(t, err)
	require.Equal(t, 100, a.Votes)
	require.Equal(t, 11, a.CommentCount)

	_, err = svc.UpdateArticleVotes(ctx, 9999, []byte(`{"inc_votes": 1}`))
	requireKind(t, err, apierr.ArticleNotFound)

	_, err = svc.UpdateArticleVotes(ctx, 1, []byte(`{"inc_votes": "lots"}`))
	requireKind(t, err, apierr.InvalidBody)

	// 100 + MaxInt32 no longer fits the votes column
	_, err = svc.UpdateArticleVotes(ctx, 1, []byte(`{"inc_votes": 2147483647}`))
	requireKind(t, err, apierr.InvalidBody)
	a, err = svc.GetArticle(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 100, a.Votes)
}

func TestUpdateArticleVotes_EmptyBody(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, body := range []string{``, `{}`, "  \n"} {
		_, err := svc.UpdateArticleVotes(ctx, 1, []byte(body))
		requireKind(t, err, apierr.EmptyBody)
		current := apierr.Classify(err).Resource
		require.IsType(t, format.ArticleView{}, current)
		require.Equal(t, 100, current.(format.ArticleView).Votes)
	}

	_, err := svc.UpdateArticleVotes(ctx, 9999, nil)
	requireKind(t, err, apierr.ArticleNotFound)
}

func TestDeleteArticle_RemovesComments(t *testing.T) {
	svc, provider := newTestService(t)
	ctx := context.Background()

	deleted, err := svc.DeleteArticle(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted.ArticleID)

	n, err := provider.CountComments(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = svc.GetArticle(ctx, 1)
	requireKind(t, err, apierr.ArticleNotFound)
	_, err = svc.DeleteArticle(ctx, 1)
	requireKind(t, err, apierr.ArticleNotFound)
}
