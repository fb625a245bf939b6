package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/lib/pq"
	"github.com/shaibs3/ncnews/internal/db_model"
	"github.com/shaibs3/ncnews/internal/query"
	"github.com/shaibs3/ncnews/internal/store/shared"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// sortExpressions maps an accepted sort_by value to its SQL expression.
// Text columns sort in byte order, as the in-memory provider does.
var sortExpressions = map[string]string{
	"article_id":    "articles.article_id",
	"title":         `articles.title COLLATE "C"`,
	"votes":         "articles.votes",
	"body":          `articles.body COLLATE "C"`,
	"topic":         `articles.topic COLLATE "C"`,
	"author":        `articles.author COLLATE "C"`,
	"created_at":    "articles.created_at",
	"comment_count": "comment_count",
}

const (
	articleColumns = "articles.article_id, articles.title, articles.body, articles.votes, " +
		"articles.topic, articles.author, articles.created_at, COUNT(comments.comment_id) AS comment_count"
	commentColumns = "comment_id, author, article_id, votes, created_at, body"
)

type PostgresProvider struct {
	db      *sql.DB
	logger  *zap.Logger
	cb      *gobreaker.CircuitBreaker
	metrics *storeMetrics
}

func NewPostgresProvider(config shared.DbProviderConfig, logger *zap.Logger, meter metric.Meter) (*PostgresProvider, error) {
	pgLogger := logger.Named("postgres")

	connStr, err := config.String("conn_str")
	if err != nil {
		return nil, err
	}
	pgLogger.Info("initializing Postgres provider")

	dbConn, err := sql.Open("postgres", connStr)
	if err != nil {
		pgLogger.Error("failed to open Postgres connection", zap.Error(err))
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}

	// The database may still be starting when the service comes up
	err = retry.Do(
		dbConn.Ping,
		retry.Attempts(5),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			pgLogger.Warn("retrying Postgres ping", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		pgLogger.Error("failed to ping Postgres", zap.Error(err))
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	// Automatically create tables if they do not exist
	if _, err := dbConn.Exec(db_model.Schema); err != nil {
		pgLogger.Error("failed to create initial tables", zap.Error(err))
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to create initial tables: %w", err)
	}

	metrics, err := newStoreMetrics(meter)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	pgLogger.Info("Postgres provider initialized successfully")
	return newProvider(dbConn, pgLogger, metrics), nil
}

func newProvider(dbConn *sql.DB, logger *zap.Logger, metrics *storeMetrics) *PostgresProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "PostgresDB",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: isHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return &PostgresProvider{db: dbConn, logger: logger, cb: cb, metrics: metrics}
}

// isHealthy treats answers about the data (missing rows, constraint
// and input errors) as a working database.
func isHealthy(err error) bool {
	if err == nil || errors.Is(err, shared.ErrNotFound) || errors.Is(err, context.Canceled) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "22", "23":
			return true
		}
	}
	return false
}

// run executes fn through the circuit breaker and records its outcome.
func run[T any](ctx context.Context, p *PostgresProvider, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	res, err := p.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	p.metrics.observe(ctx, op, time.Since(start), err)
	if err != nil {
		var zero T
		if !isHealthy(err) {
			p.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
		}
		return zero, err
	}
	return res.(T), nil
}

func articlesQuery() *query.Select {
	return query.From("articles").
		Columns(articleColumns).
		LeftJoin("comments", "articles.article_id = comments.article_id").
		GroupBy("articles.article_id")
}

func scanArticles(rows *sql.Rows) ([]db_model.Article, error) {
	defer rows.Close()
	articles := []db_model.Article{}
	for rows.Next() {
		var a db_model.Article
		if err := rows.Scan(&a.ArticleID, &a.Title, &a.Body, &a.Votes, &a.Topic, &a.Author, &a.CreatedAt, &a.CommentCount); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanComment(row interface{ Scan(...any) error }) (db_model.Comment, error) {
	var c db_model.Comment
	err := row.Scan(&c.CommentID, &c.Author, &c.ArticleID, &c.Votes, &c.CreatedAt, &c.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return db_model.Comment{}, shared.ErrNotFound
	}
	return c, err
}

func (p *PostgresProvider) ListArticles(ctx context.Context, opts shared.ArticleListOpts) ([]db_model.Article, int, error) {
	expr, ok := sortExpressions[opts.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported sort column %q", opts.SortBy)
	}
	q := articlesQuery()
	if opts.Topic != "" {
		q.WhereEq("articles.topic", opts.Topic)
	}
	if opts.Author != "" {
		q.WhereEq("articles.author", opts.Author)
	}

	q.OrderBy(expr, opts.Order)
	if opts.SortBy != "article_id" {
		q.OrderBy("articles.article_id", opts.Order)
	}
	if opts.Limit > 0 {
		q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q.Offset(opts.Offset)
	}
	countSQL, countArgs := q.Count()
	stmt, args := q.Build()

	type page struct {
		rows  []db_model.Article
		total int
	}
	res, err := run(ctx, p, "list_articles", func() (page, error) {
		var total int
		if err := p.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return page{}, fmt.Errorf("failed to count articles: %w", err)
		}
		rows, err := p.db.QueryContext(ctx, stmt, args...)
		if err != nil {
			return page{}, fmt.Errorf("failed to list articles: %w", err)
		}
		articles, err := scanArticles(rows)
		if err != nil {
			return page{}, err
		}
		return page{rows: articles, total: total}, nil
	})
	return res.rows, res.total, err
}

func (p *PostgresProvider) GetArticle(ctx context.Context, id int64) (db_model.Article, error) {
	stmt, args := articlesQuery().WhereEq("articles.article_id", id).Build()
	return run(ctx, p, "get_article", func() (db_model.Article, error) {
		rows, err := p.db.QueryContext(ctx, stmt, args...)
		if err != nil {
			return db_model.Article{}, fmt.Errorf("failed to get article: %w", err)
		}
		articles, err := scanArticles(rows)
		if err != nil {
			return db_model.Article{}, err
		}
		if len(articles) == 0 {
			return db_model.Article{}, shared.ErrNotFound
		}
		return articles[0], nil
	})
}

func (p *PostgresProvider) InsertArticle(ctx context.Context, article db_model.NewArticle) (int64, error) {
	return run(ctx, p, "insert_article", func() (int64, error) {
		var id int64
		err := p.db.QueryRowContext(ctx, `
			INSERT INTO articles (title, topic, author, body)
			VALUES ($1, $2, $3, $4)
			RETURNING article_id
		`, article.Title, article.Topic, article.Author, article.Body).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to insert article: %w", err)
		}
		return id, nil
	})
}

func (p *PostgresProvider) IncrementArticleVotes(ctx context.Context, id int64, delta int) error {
	_, err := run(ctx, p, "increment_article_votes", func() (struct{}, error) {
		res, err := p.db.ExecContext(ctx, `UPDATE articles SET votes = votes + $1 WHERE article_id = $2`, delta, id)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to update article votes: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return struct{}{}, shared.ErrNotFound
		}
		return struct{}{}, nil
	})
	return err
}

func (p *PostgresProvider) DeleteArticle(ctx context.Context, id int64) (db_model.Article, error) {
	return run(ctx, p, "delete_article", func() (db_model.Article, error) {
		var a db_model.Article
		err := p.db.QueryRowContext(ctx, `
			DELETE FROM articles WHERE article_id = $1
			RETURNING article_id, title, body, votes, topic, author, created_at
		`, id).Scan(&a.ArticleID, &a.Title, &a.Body, &a.Votes, &a.Topic, &a.Author, &a.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return db_model.Article{}, shared.ErrNotFound
		}
		if err != nil {
			return db_model.Article{}, fmt.Errorf("failed to delete article: %w", err)
		}
		return a, nil
	})
}

func (p *PostgresProvider) CountComments(ctx context.Context, articleID int64) (int, error) {
	stmt, args := query.From("comments").WhereEq("article_id", articleID).Count()
	return run(ctx, p, "count_comments", func() (int, error) {
		var n int
		if err := p.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to count comments: %w", err)
		}
		return n, nil
	})
}

func (p *PostgresProvider) ListComments(ctx context.Context, articleID int64, opts shared.CommentListOpts) ([]db_model.Comment, error) {
	q := query.From("comments").
		Columns(commentColumns).
		WhereEq("article_id", articleID).
		OrderBy("comment_id", query.Asc)
	if opts.Limit > 0 {
		q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q.Offset(opts.Offset)
	}
	stmt, args := q.Build()
	return run(ctx, p, "list_comments", func() ([]db_model.Comment, error) {
		rows, err := p.db.QueryContext(ctx, stmt, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
		defer rows.Close()
		comments := []db_model.Comment{}
		for rows.Next() {
			c, err := scanComment(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan comment: %w", err)
			}
			comments = append(comments, c)
		}
		return comments, rows.Err()
	})
}

func (p *PostgresProvider) GetComment(ctx context.Context, id int64) (db_model.Comment, error) {
	stmt, args := query.From("comments").Columns(commentColumns).WhereEq("comment_id", id).Build()
	return run(ctx, p, "get_comment", func() (db_model.Comment, error) {
		return scanComment(p.db.QueryRowContext(ctx, stmt, args...))
	})
}

func (p *PostgresProvider) InsertComment(ctx context.Context, comment db_model.NewComment) (db_model.Comment, error) {
	return run(ctx, p, "insert_comment", func() (db_model.Comment, error) {
		c, err := scanComment(p.db.QueryRowContext(ctx, `
			INSERT INTO comments (author, body, article_id)
			VALUES ($1, $2, $3)
			RETURNING `+commentColumns,
			comment.Author, comment.Body, comment.ArticleID))
		if err != nil {
			return db_model.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
		}
		return c, nil
	})
}

func (p *PostgresProvider) IncrementCommentVotes(ctx context.Context, id int64, delta int) (db_model.Comment, error) {
	return run(ctx, p, "increment_comment_votes", func() (db_model.Comment, error) {
		return scanComment(p.db.QueryRowContext(ctx, `
			UPDATE comments SET votes = votes + $1 WHERE comment_id = $2
			RETURNING `+commentColumns, delta, id))
	})
}

func (p *PostgresProvider) DeleteComment(ctx context.Context, id int64) error {
	_, err := run(ctx, p, "delete_comment", func() (struct{}, error) {
		res, err := p.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = $1`, id)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to delete comment: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return struct{}{}, shared.ErrNotFound
		}
		return struct{}{}, nil
	})
	return err
}

func (p *PostgresProvider) ListTopics(ctx context.Context) ([]db_model.Topic, error) {
	return run(ctx, p, "list_topics", func() ([]db_model.Topic, error) {
		rows, err := p.db.QueryContext(ctx, `SELECT slug, description FROM topics ORDER BY slug`)
		if err != nil {
			return nil, fmt.Errorf("failed to list topics: %w", err)
		}
		defer rows.Close()
		topics := []db_model.Topic{}
		for rows.Next() {
			var t db_model.Topic
			var desc sql.NullString
			if err := rows.Scan(&t.Slug, &desc); err != nil {
				return nil, fmt.Errorf("failed to scan topic: %w", err)
			}
			t.Description = desc.String
			topics = append(topics, t)
		}
		return topics, rows.Err()
	})
}

func (p *PostgresProvider) exists(ctx context.Context, op, stmt string, arg any) (bool, error) {
	return run(ctx, p, op, func() (bool, error) {
		var ok bool
		if err := p.db.QueryRowContext(ctx, stmt, arg).Scan(&ok); err != nil {
			return false, fmt.Errorf("failed to check existence: %w", err)
		}
		return ok, nil
	})
}

func (p *PostgresProvider) TopicExists(ctx context.Context, slug string) (bool, error) {
	return p.exists(ctx, "topic_exists", `SELECT EXISTS (SELECT 1 FROM topics WHERE slug = $1)`, slug)
}

func (p *PostgresProvider) InsertTopic(ctx context.Context, topic db_model.Topic) (db_model.Topic, error) {
	return run(ctx, p, "insert_topic", func() (db_model.Topic, error) {
		var t db_model.Topic
		err := p.db.QueryRowContext(ctx, `
			INSERT INTO topics (slug, description) VALUES ($1, $2)
			RETURNING slug, description
		`, topic.Slug, topic.Description).Scan(&t.Slug, &t.Description)
		if err != nil {
			return db_model.Topic{}, fmt.Errorf("failed to insert topic: %w", err)
		}
		return t, nil
	})
}

func scanUser(row interface{ Scan(...any) error }) (db_model.User, error) {
	var u db_model.User
	var name, avatar sql.NullString
	if err := row.Scan(&u.Username, &name, &avatar); err != nil {
		return db_model.User{}, err
	}
	u.Name, u.AvatarURL = name.String, avatar.String
	return u, nil
}

func (p *PostgresProvider) ListUsers(ctx context.Context) ([]db_model.User, error) {
	return run(ctx, p, "list_users", func() ([]db_model.User, error) {
		rows, err := p.db.QueryContext(ctx, `SELECT username, name, avatar_url FROM users ORDER BY username`)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		defer rows.Close()
		users := []db_model.User{}
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan user: %w", err)
			}
			users = append(users, u)
		}
		return users, rows.Err()
	})
}

func (p *PostgresProvider) GetUser(ctx context.Context, username string) (db_model.User, error) {
	return run(ctx, p, "get_user", func() (db_model.User, error) {
		u, err := scanUser(p.db.QueryRowContext(ctx,
			`SELECT username, name, avatar_url FROM users WHERE username = $1`, username))
		if errors.Is(err, sql.ErrNoRows) {
			return db_model.User{}, shared.ErrNotFound
		}
		if err != nil {
			return db_model.User{}, fmt.Errorf("failed to get user: %w", err)
		}
		return u, nil
	})
}

func (p *PostgresProvider) UserExists(ctx context.Context, username string) (bool, error) {
	return p.exists(ctx, "user_exists", `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (p *PostgresProvider) Close() error {
	p.logger.Info("closing Postgres provider")
	return p.db.Close()
}
