package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{InvalidSortColumn, http.StatusBadRequest},
		{InvalidOrderValue, http.StatusBadRequest},
		{InvalidQueryType, http.StatusBadRequest},
		{InvalidBody, http.StatusBadRequest},
		{InvalidAuthor, http.StatusBadRequest},
		{InvalidTopic, http.StatusBadRequest},
		{ArticleNotFound, http.StatusNotFound},
		{CommentNotFound, http.StatusNotFound},
		{ArticlesNotFound, http.StatusNotFound},
		{UsernameNotFound, http.StatusNotFound},
		{UserNotFound, http.StatusNotFound},
		{Internal, http.StatusInternalServerError},
		{Kind(999), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.kind.Status(), "kind %d", tt.kind)
	}
}

func TestClassify_StoreCodes(t *testing.T) {
	wrapped := func(code pq.ErrorCode) error {
		return fmt.Errorf("failed to insert comment: %w", &pq.Error{Code: code})
	}

	require.Equal(t, InvalidID, Classify(wrapped(CodeInvalidTextRepresentation)).Kind)
	require.Equal(t, ReferenceNotFound, Classify(wrapped(CodeForeignKeyViolation)).Kind)
	require.Equal(t, AlreadyExists, Classify(wrapped(CodeUniqueViolation)).Kind)
	require.Equal(t, InvalidBody, Classify(wrapped(CodeNumericValueOutOfRange)).Kind)
	require.Equal(t, Internal, Classify(wrapped("42P01")).Kind)
	require.Equal(t, Internal, Classify(errors.New("boom")).Kind)
	require.Equal(t, Unavailable, Classify(gobreaker.ErrOpenState).Kind)
	require.Nil(t, Classify(nil))
}

func TestClassify_KeepsClassifiedErrors(t *testing.T) {
	orig := WithResource(EmptyBody, "article")
	got := Classify(fmt.Errorf("update: %w", orig))
	require.Same(t, orig, got)
	require.Equal(t, "article", got.Resource)
	require.True(t, Is(fmt.Errorf("x: %w", New(ArticleNotFound)), ArticleNotFound))
	require.False(t, Is(errors.New("x"), ArticleNotFound))
}
