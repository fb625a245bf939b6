package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func articles() *Select {
	return From("articles").
		Columns("articles.article_id", "COUNT(comments.comment_id) AS comment_count").
		LeftJoin("comments", "articles.article_id = comments.article_id").
		GroupBy("articles.article_id")
}

func TestSelect_Build_NoFilters(t *testing.T) {
	sql, args := articles().OrderBy("articles.created_at", Desc).Build()
	require.Equal(t,
		"SELECT articles.article_id, COUNT(comments.comment_id) AS comment_count FROM articles "+
			"LEFT JOIN comments ON articles.article_id = comments.article_id "+
			"GROUP BY articles.article_id ORDER BY articles.created_at DESC",
		sql)
	require.Empty(t, args)
}

func TestSelect_Build_FiltersAreBound(t *testing.T) {
	topic := "mitch'; DROP TABLE articles; --"
	sql, args := articles().
		WhereEq("articles.topic", topic).
		WhereEq("articles.author", "butter_bridge").
		OrderBy("votes", Asc).
		Limit(10).
		Offset(20).
		Build()

	require.Equal(t,
		"SELECT articles.article_id, COUNT(comments.comment_id) AS comment_count FROM articles "+
			"LEFT JOIN comments ON articles.article_id = comments.article_id "+
			"WHERE articles.topic = $1 AND articles.author = $2 "+
			"GROUP BY articles.article_id ORDER BY votes ASC LIMIT $3 OFFSET $4",
		sql)
	require.Equal(t, []any{topic, "butter_bridge", 10, 20}, args)
	require.NotContains(t, sql, "DROP")
}

func TestSelect_Count(t *testing.T) {
	q := articles().WhereEq("articles.topic", "cats").OrderBy("votes", Desc).Limit(5)

	sql, args := q.Count()
	require.Equal(t,
		"SELECT COUNT(*) FROM (SELECT 1 FROM articles "+
			"LEFT JOIN comments ON articles.article_id = comments.article_id "+
			"WHERE articles.topic = $1 GROUP BY articles.article_id) AS matched",
		sql)
	require.Equal(t, []any{"cats"}, args)

	sql, args = From("comments").WhereEq("article_id", int64(1)).Count()
	require.Equal(t, "SELECT COUNT(*) FROM comments WHERE article_id = $1", sql)
	require.Equal(t, []any{int64(1)}, args)
}

func TestSelect_BuildIsRepeatable(t *testing.T) {
	q := From("comments").WhereEq("article_id", 1).Limit(2).Offset(2)
	first, firstArgs := q.Build()
	second, secondArgs := q.Build()
	require.Equal(t, first, second)
	require.Equal(t, firstArgs, secondArgs)
	require.Equal(t, "SELECT * FROM comments WHERE article_id = $1 LIMIT $2 OFFSET $3", first)
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("asc")
	require.True(t, ok)
	require.Equal(t, Asc, d)
	d, ok = ParseDirection("desc")
	require.True(t, ok)
	require.Equal(t, Desc, d)
	_, ok = ParseDirection("DESC")
	require.False(t, ok)
	_, ok = ParseDirection("sideways")
	require.False(t, ok)
	_, ok = ParseDirection("")
	require.False(t, ok)
}
