package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shaibs3/ncnews/internal/db_model"
)

// DateLayout renders timestamps as "YYYY-MM-DD HH:MM:SS".
const DateLayout = "2006-01-02 15:04:05"

// ArticleView is the external shape of an article.
type ArticleView struct {
	Author       string `json:"author"`
	Title        string `json:"title"`
	ArticleID    int64  `json:"article_id"`
	Body         string `json:"body"`
	Topic        string `json:"topic"`
	CreatedAt    string `json:"created_at"`
	Votes        int    `json:"votes"`
	CommentCount int    `json:"comment_count"`
}

// CommentView is the external shape of a comment.
type CommentView struct {
	CommentID int64  `json:"comment_id"`
	Votes     int    `json:"votes"`
	CreatedAt string `json:"created_at"`
	Author    string `json:"author"`
	Body      string `json:"body"`
}

// Date formats t in the location it already carries.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// ArticleRow projects a joined article row, coercing the comment aggregate to an integer.
func ArticleRow(row db_model.Article) (ArticleView, error) {
	count := 0
	if raw := strings.TrimSpace(row.CommentCount); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ArticleView{}, fmt.Errorf("invalid comment_count %q for article %d: %w", row.CommentCount, row.ArticleID, err)
		}
		count = n
	}
	return ArticleView{
		Author:       row.Author,
		Title:        row.Title,
		ArticleID:    row.ArticleID,
		Body:         row.Body,
		Topic:        row.Topic,
		CreatedAt:    Date(row.CreatedAt),
		Votes:        row.Votes,
		CommentCount: count,
	}, nil
}

// ArticleRows formats a row set, keeping its order.
func ArticleRows(rows []db_model.Article) ([]ArticleView, error) {
	views := make([]ArticleView, 0, len(rows))
	for _, row := range rows {
		v, err := ArticleRow(row)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func CommentRow(row db_model.Comment) CommentView {
	return CommentView{
		CommentID: row.CommentID,
		Votes:     row.Votes,
		CreatedAt: Date(row.CreatedAt),
		Author:    row.Author,
		Body:      row.Body,
	}
}

func CommentRows(rows []db_model.Comment) []CommentView {
	views := make([]CommentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, CommentRow(row))
	}
	return views
}
