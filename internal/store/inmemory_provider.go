package store

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/shaibs3/ncnews/internal/db_model"
	"github.com/shaibs3/ncnews/internal/query"
)

// InMemoryProvider keeps the four tables in maps and mirrors the
// Postgres provider's semantics, including foreign keys and the
// comments cascade. Constraint failures are reported as *pq.Error.
type InMemoryProvider struct {
	mu            sync.RWMutex
	users         map[string]db_model.User
	topics        map[string]db_model.Topic
	articles      map[int64]db_model.Article
	comments      map[int64]db_model.Comment
	nextArticleID int64
	nextCommentID int64
	now           func() time.Time
}

func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		users:         make(map[string]db_model.User),
		topics:        make(map[string]db_model.Topic),
		articles:      make(map[int64]db_model.Article),
		comments:      make(map[int64]db_model.Comment),
		nextArticleID: 1,
		nextCommentID: 1,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Load replaces the provider's contents. Articles and comments are given
// ids in slice order, as a bulk insert into SERIAL columns would.
func (m *InMemoryProvider) Load(topics []db_model.Topic, users []db_model.User, articles []db_model.Article, comments []db_model.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]db_model.User, len(users))
	m.topics = make(map[string]db_model.Topic, len(topics))
	m.articles = make(map[int64]db_model.Article, len(articles))
	m.comments = make(map[int64]db_model.Comment, len(comments))
	for _, u := range users {
		m.users[u.Username] = u
	}
	for _, t := range topics {
		m.topics[t.Slug] = t
	}
	m.nextArticleID = 1
	for _, a := range articles {
		a.ArticleID = m.nextArticleID
		a.CommentCount = ""
		m.articles[a.ArticleID] = a
		m.nextArticleID++
	}
	m.nextCommentID = 1
	for _, c := range comments {
		c.CommentID = m.nextCommentID
		m.comments[c.CommentID] = c
		m.nextCommentID++
	}
}

func foreignKeyViolation(constraint string) error {
	return &pq.Error{Code: "23503", Message: "insert violates foreign key constraint", Constraint: constraint}
}

func outOfRange(column string) error {
	return &pq.Error{Code: "22003", Message: "integer out of range", Column: column}
}

// addVotes mirrors the INT votes column, which rejects sums outside int32.
func addVotes(votes, delta int) (int, error) {
	sum := int64(votes) + int64(delta)
	if sum < math.MinInt32 || sum > math.MaxInt32 {
		return 0, outOfRange("votes")
	}
	return int(sum), nil
}

func uniqueViolation(constraint string) error {
	return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint", Constraint: constraint}
}

// withCount must be called with the lock held.
func (m *InMemoryProvider) withCount(a db_model.Article) db_model.Article {
	n := 0
	for _, c := range m.comments {
		if c.ArticleID == a.ArticleID {
			n++
		}
	}
	a.CommentCount = strconv.Itoa(n)
	return a
}

func compareArticles(col string, a, b db_model.Article) int {
	switch col {
	case "article_id":
		return cmp.Compare(a.ArticleID, b.ArticleID)
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "votes":
		return cmp.Compare(a.Votes, b.Votes)
	case "body":
		return cmp.Compare(a.Body, b.Body)
	case "topic":
		return cmp.Compare(a.Topic, b.Topic)
	case "author":
		return cmp.Compare(a.Author, b.Author)
	case "comment_count":
		ac, _ := strconv.Atoi(a.CommentCount)
		bc, _ := strconv.Atoi(b.CommentCount)
		return cmp.Compare(ac, bc)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (m *InMemoryProvider) ListArticles(ctx context.Context, opts ArticleListOpts) ([]db_model.Article, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]db_model.Article, 0, len(m.articles))
	for _, a := range m.articles {
		if opts.Topic != "" && a.Topic != opts.Topic {
			continue
		}
		if opts.Author != "" && a.Author != opts.Author {
			continue
		}
		matched = append(matched, m.withCount(a))
	}

	slices.SortFunc(matched, func(a, b db_model.Article) int {
		c := compareArticles(opts.SortBy, a, b)
		if c == 0 {
			c = cmp.Compare(a.ArticleID, b.ArticleID)
		}
		if opts.Order == query.Desc {
			return -c
		}
		return c
	})

	total := len(matched)
	return paginate(matched, opts.Limit, opts.Offset), total, nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset < 0 || offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func (m *InMemoryProvider) GetArticle(ctx context.Context, id int64) (db_model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.articles[id]
	if !ok {
		return db_model.Article{}, ErrNotFound
	}
	return m.withCount(a), nil
}

func (m *InMemoryProvider) InsertArticle(ctx context.Context, article db_model.NewArticle) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.topics[article.Topic]; !ok {
		return 0, foreignKeyViolation("articles_topic_fkey")
	}
	if _, ok := m.users[article.Author]; !ok {
		return 0, foreignKeyViolation("articles_author_fkey")
	}
	id := m.nextArticleID
	m.nextArticleID++
	m.articles[id] = db_model.Article{
		ArticleID: id,
		Title:     article.Title,
		Body:      article.Body,
		Topic:     article.Topic,
		Author:    article.Author,
		CreatedAt: m.now(),
	}
	return id, nil
}

func (m *InMemoryProvider) IncrementArticleVotes(ctx context.Context, id int64, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return ErrNotFound
	}
	votes, err := addVotes(a.Votes, delta)
	if err != nil {
		return fmt.Errorf("failed to update article votes: %w", err)
	}
	a.Votes = votes
	m.articles[id] = a
	return nil
}

func (m *InMemoryProvider) DeleteArticle(ctx context.Context, id int64) (db_model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return db_model.Article{}, ErrNotFound
	}
	delete(m.articles, id)
	for cid, c := range m.comments {
		if c.ArticleID == id {
			delete(m.comments, cid)
		}
	}
	return a, nil
}

func (m *InMemoryProvider) CountComments(ctx context.Context, articleID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.comments {
		if c.ArticleID == articleID {
			n++
		}
	}
	return n, nil
}

func (m *InMemoryProvider) ListComments(ctx context.Context, articleID int64, opts CommentListOpts) ([]db_model.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []db_model.Comment
	for _, c := range m.comments {
		if c.ArticleID == articleID {
			rows = append(rows, c)
		}
	}
	slices.SortFunc(rows, func(a, b db_model.Comment) int {
		return cmp.Compare(a.CommentID, b.CommentID)
	})
	return paginate(rows, opts.Limit, opts.Offset), nil
}

func (m *InMemoryProvider) GetComment(ctx context.Context, id int64) (db_model.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments[id]
	if !ok {
		return db_model.Comment{}, ErrNotFound
	}
	return c, nil
}

func (m *InMemoryProvider) InsertComment(ctx context.Context, comment db_model.NewComment) (db_model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[comment.ArticleID]; !ok {
		return db_model.Comment{}, foreignKeyViolation("comments_article_id_fkey")
	}
	if _, ok := m.users[comment.Author]; !ok {
		return db_model.Comment{}, foreignKeyViolation("comments_author_fkey")
	}
	c := db_model.Comment{
		CommentID: m.nextCommentID,
		Author:    comment.Author,
		ArticleID: comment.ArticleID,
		CreatedAt: m.now(),
		Body:      comment.Body,
	}
	m.nextCommentID++
	m.comments[c.CommentID] = c
	return c, nil
}

func (m *InMemoryProvider) IncrementCommentVotes(ctx context.Context, id int64, delta int) (db_model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return db_model.Comment{}, ErrNotFound
	}
	votes, err := addVotes(c.Votes, delta)
	if err != nil {
		return db_model.Comment{}, fmt.Errorf("failed to update comment votes: %w", err)
	}
	c.Votes = votes
	m.comments[id] = c
	return c, nil
}

func (m *InMemoryProvider) DeleteComment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *InMemoryProvider) ListTopics(ctx context.Context) ([]db_model.Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	topics := make([]db_model.Topic, 0, len(m.topics))
	for _, t := range m.topics {
		topics = append(topics, t)
	}
	slices.SortFunc(topics, func(a, b db_model.Topic) int { return cmp.Compare(a.Slug, b.Slug) })
	return topics, nil
}

func (m *InMemoryProvider) TopicExists(ctx context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.topics[slug]
	return ok, nil
}

func (m *InMemoryProvider) InsertTopic(ctx context.Context, topic db_model.Topic) (db_model.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.topics[topic.Slug]; ok {
		return db_model.Topic{}, fmt.Errorf("failed to insert topic: %w", uniqueViolation("topics_pkey"))
	}
	m.topics[topic.Slug] = topic
	return topic, nil
}

func (m *InMemoryProvider) ListUsers(ctx context.Context) ([]db_model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]db_model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b db_model.User) int { return cmp.Compare(a.Username, b.Username) })
	return users, nil
}

func (m *InMemoryProvider) GetUser(ctx context.Context, username string) (db_model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return db_model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *InMemoryProvider) UserExists(ctx context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *InMemoryProvider) Close() error {
	return nil
}
