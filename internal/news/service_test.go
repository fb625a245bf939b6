package news

import (
	"math"
	"net/url"
	"testing"

	"github.com/shaibs3/ncnews/internal/apierr"
	"github.com/shaibs3/ncnews/internal/seed"
	"github.com/shaibs3/ncnews/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *store.InMemoryProvider) {
	t.Helper()
	d, err := seed.Load()
	require.NoError(t, err)
	provider := store.NewInMemoryProvider()
	provider.Load(d.Topics, d.Users, d.ArticleRows(), d.CommentRows())
	return NewService(provider, zap.NewNop()), provider
}

func requireKind(t *testing.T, err error, kind apierr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apierr.Is(err, kind), "expected kind %d (%s), got %v", kind, kind.Message(), err)
}

func TestPage(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{name: "defaults", query: "", limit: 10, offset: 0},
		{name: "explicit", query: "limit=5&p=3", limit: 5, offset: 10},
		{name: "page only", query: "p=2", limit: 10, offset: 10},
		{name: "signed", query: "limit=+4", limit: 4, offset: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			limit, offset, err := page(params)
			require.NoError(t, err)
			require.Equal(t, tt.limit, limit)
			require.Equal(t, tt.offset, offset)
		})
	}

	for _, query := range []string{
		"limit=5four", "p=abc", "limit=0", "p=-1", "limit=2.5", "limit=",
		"limit=4611686018427387904&p=3",
		"limit=2&p=9223372036854775807",
		"limit=99999999999999999999",
	} {
		t.Run(query, func(t *testing.T) {
			params, err := url.ParseQuery(query)
			require.NoError(t, err)
			_, _, err = page(params)
			requireKind(t, err, apierr.InvalidQueryType)
		})
	}
}

func TestPage_LargestOffset(t *testing.T) {
	params := url.Values{"limit": {"9223372036854775807"}, "p": {"2"}}
	limit, offset, err := page(params)
	require.NoError(t, err)
	require.Equal(t, math.MaxInt, limit)
	require.Equal(t, math.MaxInt, offset)
}

func TestDecodeVotes(t *testing.T) {
	delta, err := decodeVotes([]byte(`{"inc_votes": -3, "extra": true}`))
	require.NoError(t, err)
	require.Equal(t, -3, delta)

	for _, body := range []string{
		`{"inc_votes":"one"}`, `{"inc_votes":1.5}`, `{"votes":1}`, `{"inc_votes":null}`, `not json`,
		`{"inc_votes":2147483648}`, `{"inc_votes":-2147483649}`,
	} {
		_, err := decodeVotes([]byte(body))
		requireKind(t, err, apierr.InvalidBody)
	}
}
