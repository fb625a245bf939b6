package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shaibs3/ncnews/internal/db_model"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GORM models for bulk loading; the schema itself comes from db_model.Schema.
type gormUser struct {
	Username  string `gorm:"primaryKey"`
	Name      string
	AvatarURL string
}

func (gormUser) TableName() string {
	return "users"
}

type gormTopic struct {
	Slug        string `gorm:"primaryKey"`
	Description string
}

func (gormTopic) TableName() string {
	return "topics"
}

type gormArticle struct {
	ArticleID int64 `gorm:"primaryKey;autoIncrement"`
	Title     string
	Body      string
	Votes     int
	Topic     string
	Author    string
	CreatedAt time.Time
}

func (gormArticle) TableName() string {
	return "articles"
}

type gormComment struct {
	CommentID int64 `gorm:"primaryKey;autoIncrement"`
	Author    string
	ArticleID int64
	Votes     int
	CreatedAt time.Time
	Body      string
}

func (gormComment) TableName() string {
	return "comments"
}

const batchSize = 100

// Seeder recreates the schema and loads a fixture set.
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to Postgres through GORM.
func Open(connStr string, logger *zap.Logger) (*Seeder, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open GORM connection: %w", err)
	}
	return &Seeder{db: db, logger: logger.Named("seed")}, nil
}

// Close releases the underlying connection pool.
func (s *Seeder) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Seed drops and recreates every table, then inserts d in one transaction.
func (s *Seeder) Seed(ctx context.Context, d Data) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(db_model.DropSchema).Error; err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
		if err := tx.Exec(db_model.Schema).Error; err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}

		users := make([]gormUser, len(d.Users))
		for i, u := range d.Users {
			users[i] = gormUser{Username: u.Username, Name: u.Name, AvatarURL: u.AvatarURL}
		}
		topics := make([]gormTopic, len(d.Topics))
		for i, t := range d.Topics {
			topics[i] = gormTopic{Slug: t.Slug, Description: t.Description}
		}
		articles := make([]gormArticle, 0, len(d.Articles))
		for _, a := range d.ArticleRows() {
			articles = append(articles, gormArticle{
				Title: a.Title, Body: a.Body, Votes: a.Votes, Topic: a.Topic, Author: a.Author, CreatedAt: a.CreatedAt,
			})
		}
		comments := make([]gormComment, 0, len(d.Comments))
		for _, c := range d.CommentRows() {
			comments = append(comments, gormComment{
				Author: c.Author, ArticleID: c.ArticleID, Votes: c.Votes, CreatedAt: c.CreatedAt, Body: c.Body,
			})
		}

		for _, step := range []struct {
			table string
			rows  any
			n     int
		}{
			{"users", users, len(users)},
			{"topics", topics, len(topics)},
			{"articles", articles, len(articles)},
			{"comments", comments, len(comments)},
		} {
			if step.n == 0 {
				continue
			}
			if err := tx.CreateInBatches(step.rows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert %s: %w", step.table, err)
			}
			s.logger.Info("seeded table", zap.String("table", step.table), zap.Int("rows", step.n))
		}
		return nil
	})
}
