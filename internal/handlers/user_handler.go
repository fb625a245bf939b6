package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shaibs3/ncnews/internal/news"
	"go.uber.org/zap"
)

type UserHandler struct {
	news   *news.Service
	logger *zap.Logger
}

func NewUserHandler(svc *news.Service) *UserHandler {
	return &UserHandler{news: svc, logger: zap.NewNop()}
}

// RegisterRoutes registers the routes for this handler
func (h *UserHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	h.logger = logger.Named("users")
	router.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	router.HandleFunc("/users/{username}", h.getUser).Methods(http.MethodGet)
	router.HandleFunc("/users/{username}/articles", h.listUserArticles).Methods(http.MethodGet)
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.news.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.news.GetUser(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) listUserArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.news.ListArticlesByUser(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"articles": articles})
}
