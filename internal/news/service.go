package news

import (
	"errors"
	"math"
	"net/url"
	"strconv"

	"github.com/shaibs3/ncnews/internal/apierr"
	"github.com/shaibs3/ncnews/internal/store"
	"github.com/shaibs3/ncnews/internal/validate"
	"go.uber.org/zap"
)

const defaultLimit = 10

// Service implements the article, comment, topic and user operations on
// top of a DbProvider. Every failure it returns is an *apierr.Error.
type Service struct {
	store  store.DbProvider
	logger *zap.Logger
}

func NewService(provider store.DbProvider, logger *zap.Logger) *Service {
	return &Service{
		store:  provider,
		logger: logger.Named("news"),
	}
}

// fail classifies err, reporting a missing row as notFound.
func fail(err error, notFound apierr.Kind) error {
	if errors.Is(err, store.ErrNotFound) {
		return apierr.Wrap(notFound, err)
	}
	return apierr.Classify(err)
}

// page reads the limit and p query parameters. Both must be numeric
// strings holding positive integers; limit defaults to 10 and p to 1.
func page(params url.Values) (limit, offset int, err error) {
	limit, err = positiveParam(params, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	p, err := positiveParam(params, "p", 1)
	if err != nil {
		return 0, 0, err
	}
	if p-1 > math.MaxInt/limit {
		return 0, 0, apierr.New(apierr.InvalidQueryType)
	}
	return limit, limit * (p - 1), nil
}

func positiveParam(params url.Values, key string, def int) (int, error) {
	if !params.Has(key) {
		return def, nil
	}
	raw := params.Get(key)
	if !validate.IsNumericString(raw) {
		return 0, apierr.New(apierr.InvalidQueryType)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apierr.New(apierr.InvalidQueryType)
	}
	return n, nil
}

// votesBody is the body of a vote patch. Keys other than inc_votes are ignored.
type votesBody struct {
	IncVotes *int `json:"inc_votes" validate:"required"`
}

func decodeVotes(body []byte) (int, error) {
	var v votesBody
	if res := validate.Lenient(body, &v); !res.OK() {
		return 0, apierr.Wrap(apierr.InvalidBody, res)
	}
	// votes columns are INT
	if *v.IncVotes < math.MinInt32 || *v.IncVotes > math.MaxInt32 {
		return 0, apierr.New(apierr.InvalidBody)
	}
	return *v.IncVotes, nil
}
