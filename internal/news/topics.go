package news

import (
	"context"

	"github.com/shaibs3/ncnews/internal/apierr"
	"github.com/shaibs3/ncnews/internal/db_model"
	"github.com/shaibs3/ncnews/internal/validate"
	"go.uber.org/zap"
)

type newTopicBody struct {
	Slug        *string `json:"slug" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

func (s *Service) ListTopics(ctx context.Context) ([]db_model.Topic, error) {
	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return nil, apierr.Classify(err)
	}
	return topics, nil
}

// CreateTopic inserts a topic. A slug already in use fails with AlreadyExists.
func (s *Service) CreateTopic(ctx context.Context, body []byte) (db_model.Topic, error) {
	var in newTopicBody
	if res := validate.Exact(body, &in); !res.OK() {
		return db_model.Topic{}, apierr.Wrap(apierr.InvalidBody, res)
	}
	topic, err := s.store.InsertTopic(ctx, db_model.Topic{Slug: *in.Slug, Description: *in.Description})
	if err != nil {
		return db_model.Topic{}, apierr.Classify(err)
	}
	s.logger.Debug("topic created", zap.String("slug", topic.Slug))
	return topic, nil
}
