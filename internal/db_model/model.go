package db_model

import "time"

// User is a row of the users table.
type User struct {
	Username  string `db_model:"username" json:"username"`
	Name      string `db_model:"name" json:"name"`
	AvatarURL string `db_model:"avatar_url" json:"avatar_url"`
}

// Topic is a row of the topics table.
type Topic struct {
	Slug        string `db_model:"slug" json:"slug"`
	Description string `db_model:"description" json:"description"`
}

// Article is an articles row joined with its comment aggregate.
// CommentCount is the raw aggregate as the store reports it.
type Article struct {
	ArticleID    int64     `db_model:"article_id"`
	Title        string    `db_model:"title"`
	Body         string    `db_model:"body"`
	Votes        int       `db_model:"votes"`
	Topic        string    `db_model:"topic"`
	Author       string    `db_model:"author"`
	CreatedAt    time.Time `db_model:"created_at"`
	CommentCount string    `db_model:"comment_count"`
}

// NewArticle holds the columns supplied on insert.
type NewArticle struct {
	Title  string
	Body   string
	Topic  string
	Author string
}

// Comment is a row of the comments table.
type Comment struct {
	CommentID int64     `db_model:"comment_id"`
	Author    string    `db_model:"author"`
	ArticleID int64     `db_model:"article_id"`
	Votes     int       `db_model:"votes"`
	CreatedAt time.Time `db_model:"created_at"`
	Body      string    `db_model:"body"`
}

// NewComment holds the columns supplied on insert.
type NewComment struct {
	ArticleID int64
	Author    string
	Body      string
}

// Schema is the SQL schema for the users, topics, articles and comments tables
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    username VARCHAR PRIMARY KEY,
    avatar_url VARCHAR,
    name VARCHAR
);

CREATE TABLE IF NOT EXISTS topics (
    slug VARCHAR PRIMARY KEY,
    description VARCHAR
);

CREATE TABLE IF NOT EXISTS articles (
    article_id SERIAL PRIMARY KEY,
    title VARCHAR NOT NULL,
    body VARCHAR NOT NULL,
    votes INT DEFAULT 0,
    topic VARCHAR REFERENCES topics(slug) NOT NULL,
    author VARCHAR REFERENCES users(username) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS comments (
    comment_id SERIAL PRIMARY KEY,
    author VARCHAR REFERENCES users(username) NOT NULL,
    article_id INT REFERENCES articles(article_id) ON DELETE CASCADE,
    votes INT DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    body TEXT NOT NULL
);
`

// DropSchema removes the tables in dependency order.
const DropSchema = `
DROP TABLE IF EXISTS comments;
DROP TABLE IF EXISTS articles;
DROP TABLE IF EXISTS topics;
DROP TABLE IF EXISTS users;
`
