package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/shaibs3/ncnews/internal/store/shared"
	"github.com/stretchr/testify/require"
)

func TestIsHealthy(t *testing.T) {
	require.True(t, isHealthy(nil))
	require.True(t, isHealthy(shared.ErrNotFound))
	require.True(t, isHealthy(fmt.Errorf("wrapped: %w", context.Canceled)))
	require.True(t, isHealthy(fmt.Errorf("failed to insert: %w", &pq.Error{Code: "23503"})))
	require.True(t, isHealthy(&pq.Error{Code: "22P02"}))

	require.False(t, isHealthy(errors.New("connection refused")))
	require.False(t, isHealthy(&pq.Error{Code: "57P01"}))
}

func TestSortExpressions_CoverArticleSortColumns(t *testing.T) {
	for _, col := range shared.ArticleSortColumns {
		_, ok := sortExpressions[col]
		require.True(t, ok, col)
	}
	require.Len(t, sortExpressions, len(shared.ArticleSortColumns))

	for _, col := range []string{"title", "body", "topic", "author"} {
		require.Equal(t, "articles."+col+` COLLATE "C"`, sortExpressions[col])
	}
}

func TestNewStoreMetrics_NilMeter(t *testing.T) {
	m, err := newStoreMetrics(nil)
	require.NoError(t, err)
	require.Nil(t, m)
	// observe on a nil receiver is a no-op
	m.observe(context.Background(), "noop", 0, errors.New("ignored"))
}
