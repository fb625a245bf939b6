package seed

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shaibs3/ncnews/internal/db_model"
)

//go:embed data/*.json
var files embed.FS

// ArticleData is an article as written in the fixture files.
type ArticleData struct {
	Title     string `json:"title"`
	Topic     string `json:"topic"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
	Votes     int    `json:"votes"`
}

// CommentData is a comment as written in the fixture files.
type CommentData struct {
	Body      string `json:"body"`
	Votes     int    `json:"votes"`
	Author    string `json:"author"`
	ArticleID int64  `json:"article_id"`
	CreatedAt int64  `json:"created_at"`
}

// Data is the full fixture set. Timestamps are epoch milliseconds.
type Data struct {
	Topics   []db_model.Topic
	Users    []db_model.User
	Articles []ArticleData
	Comments []CommentData
}

// Load reads the embedded fixture set.
func Load() (Data, error) {
	var d Data
	for name, dst := range map[string]any{
		"data/topics.json":   &d.Topics,
		"data/users.json":    &d.Users,
		"data/articles.json": &d.Articles,
		"data/comments.json": &d.Comments,
	} {
		raw, err := files.ReadFile(name)
		if err != nil {
			return Data{}, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return Data{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}
	return d, nil
}

// ArticleRows converts the fixture articles to rows; ids are left to the store.
func (d Data) ArticleRows() []db_model.Article {
	rows := make([]db_model.Article, len(d.Articles))
	for i, a := range d.Articles {
		rows[i] = db_model.Article{
			Title:     a.Title,
			Body:      a.Body,
			Votes:     a.Votes,
			Topic:     a.Topic,
			Author:    a.Author,
			CreatedAt: time.UnixMilli(a.CreatedAt).UTC(),
		}
	}
	return rows
}

// CommentRows converts the fixture comments to rows; ids are left to the store.
func (d Data) CommentRows() []db_model.Comment {
	rows := make([]db_model.Comment, len(d.Comments))
	for i, c := range d.Comments {
		rows[i] = db_model.Comment{
			Author:    c.Author,
			ArticleID: c.ArticleID,
			Votes:     c.Votes,
			CreatedAt: time.UnixMilli(c.CreatedAt).UTC(),
			Body:      c.Body,
		}
	}
	return rows
}
