package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"
)

// Kind classifies a failed operation.
type Kind int

const (
	Internal Kind = iota
	InvalidSortColumn
	InvalidOrderValue
	InvalidQueryType
	InvalidBody
	InvalidAuthor
	InvalidTopic
	InvalidID
	AlreadyExists
	EmptyBody
	ArticleNotFound
	ArticlesNotFound
	CommentNotFound
	UsernameNotFound
	UserNotFound
	ReferenceNotFound
	Unavailable
)

// SQLSTATE codes the boundary understands.
const (
	CodeNumericValueOutOfRange    pq.ErrorCode = "22003"
	CodeInvalidTextRepresentation pq.ErrorCode = "22P02"
	CodeForeignKeyViolation       pq.ErrorCode = "23503"
	CodeUniqueViolation           pq.ErrorCode = "23505"
)

var kindInfo = map[Kind]struct {
	status int
	msg    string
}{
	Internal:          {http.StatusInternalServerError, "Internal Server Error"},
	InvalidSortColumn: {http.StatusBadRequest, "Invalid sort_by query"},
	InvalidOrderValue: {http.StatusBadRequest, "Invalid order query"},
	InvalidQueryType:  {http.StatusBadRequest, "Invalid query type"},
	InvalidBody:       {http.StatusBadRequest, "Bad Request. Invalid body"},
	InvalidAuthor:     {http.StatusBadRequest, "Bad Request. Invalid author"},
	InvalidTopic:      {http.StatusBadRequest, "Bad Request. Invalid topic"},
	InvalidID:         {http.StatusBadRequest, "Bad Request"},
	AlreadyExists:     {http.StatusBadRequest, "Bad Request. Already exists"},
	EmptyBody:         {http.StatusOK, "Empty body"},
	ArticleNotFound:   {http.StatusNotFound, "Article Not Found"},
	ArticlesNotFound:  {http.StatusNotFound, "Articles not found"},
	CommentNotFound:   {http.StatusNotFound, "Comment Not Found"},
	UsernameNotFound:  {http.StatusNotFound, "Username Not Found"},
	UserNotFound:      {http.StatusNotFound, "User Not Found"},
	ReferenceNotFound: {http.StatusNotFound, "Not Found"},
	Unavailable:       {http.StatusServiceUnavailable, "Service Unavailable"},
}

// Status returns the HTTP status a failure of this kind is rendered with.
func (k Kind) Status() int {
	if info, ok := kindInfo[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Message returns the default client-facing message for the kind.
func (k Kind) Message() string {
	if info, ok := kindInfo[k]; ok {
		return info.msg
	}
	return kindInfo[Internal].msg
}

// Error is the failure half of every operation result. Resource carries
// state the boundary may render instead of a message (see EmptyBody).
type Error struct {
	Kind     Kind
	Msg      string
	Resource any
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an error of the given kind with its default message.
func New(kind Kind) *Error {
	return &Error{Kind: kind, Msg: kind.Message()}
}

// Wrap returns an error of the given kind that keeps cause in its chain.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Msg: kind.Message(), Err: cause}
}

// WithResource returns an error of the given kind carrying the current resource state.
func WithResource(kind Kind, resource any) *Error {
	return &Error{Kind: kind, Msg: kind.Message(), Resource: resource}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Classify maps any error onto the taxonomy. Errors already classified are
// returned as is; store errors are mapped by their SQLSTATE code.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case CodeInvalidTextRepresentation:
			return Wrap(InvalidID, err)
		case CodeNumericValueOutOfRange:
			return Wrap(InvalidBody, err)
		case CodeForeignKeyViolation:
			return Wrap(ReferenceNotFound, err)
		case CodeUniqueViolation:
			return Wrap(AlreadyExists, err)
		}
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Wrap(Unavailable, err)
	}
	return Wrap(Internal, err)
}
