package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shaibs3/ncnews/internal/news"
	"go.uber.org/zap"
)

type TopicHandler struct {
	news   *news.Service
	logger *zap.Logger
}

func NewTopicHandler(svc *news.Service) *TopicHandler {
	return &TopicHandler{news: svc, logger: zap.NewNop()}
}

// RegisterRoutes registers the routes for this handler
func (h *TopicHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	h.logger = logger.Named("topics")
	router.HandleFunc("/topics", h.listTopics).Methods(http.MethodGet)
	router.HandleFunc("/topics", h.createTopic).Methods(http.MethodPost)
}

func (h *TopicHandler) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.news.ListTopics(r.Context())
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

func (h *TopicHandler) createTopic(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	topic, err := h.news.CreateTopic(r.Context(), body)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"topic": topic})
}
