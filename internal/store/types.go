package store

import "github.com/shaibs3/ncnews/internal/store/shared"

// Re-export shared types for convenience
type DbType = shared.DbType
type DbProviderConfig = shared.DbProviderConfig
type ArticleListOpts = shared.ArticleListOpts
type CommentListOpts = shared.CommentListOpts

// Re-export constants
const (
	DbTypePostgres = shared.DbTypePostgres
	DbTypeMemory   = shared.DbTypeMemory
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = shared.ErrNotFound
