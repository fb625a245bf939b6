package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shaibs3/ncnews/internal/news"
	"go.uber.org/zap"
)

// CommentHandler serves /comments/{comment_id}.
type CommentHandler struct {
	news   *news.Service
	logger *zap.Logger
}

func NewCommentHandler(svc *news.Service) *CommentHandler {
	return &CommentHandler{news: svc, logger: zap.NewNop()}
}

// RegisterRoutes registers the routes for this handler
func (h *CommentHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	h.logger = logger.Named("comments")
	router.HandleFunc("/comments/{comment_id}", h.updateCommentVotes).Methods(http.MethodPatch)
	router.HandleFunc("/comments/{comment_id}", h.deleteComment).Methods(http.MethodDelete)
}

func (h *CommentHandler) updateCommentVotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "comment_id")
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	comment, err := h.news.UpdateCommentVotes(r.Context(), id, body)
	if err != nil {
		writeError(w, h.logger, r, "comment", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"comment": comment})
}

func (h *CommentHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "comment_id")
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	if err := h.news.DeleteComment(r.Context(), id); err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
