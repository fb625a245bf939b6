package shared

import "github.com/shaibs3/ncnews/internal/query"

// ArticleSortColumns are the columns an article listing may be sorted by.
var ArticleSortColumns = []string{
	"article_id",
	"title",
	"votes",
	"body",
	"topic",
	"author",
	"created_at",
	"comment_count",
}

// IsArticleSortColumn reports whether col is one of ArticleSortColumns.
func IsArticleSortColumn(col string) bool {
	for _, c := range ArticleSortColumns {
		if c == col {
			return true
		}
	}
	return false
}

// ArticleListOpts selects one page of articles. Empty Topic/Author mean no
// filter; a zero Limit returns every matching row.
type ArticleListOpts struct {
	Topic  string
	Author string
	SortBy string
	Order  query.Direction
	Limit  int
	Offset int
}

// CommentListOpts selects one page of an article's comments.
type CommentListOpts struct {
	Limit  int
	Offset int
}
