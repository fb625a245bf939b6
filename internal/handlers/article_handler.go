package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shaibs3/ncnews/internal/news"
	"go.uber.org/zap"
)

// ArticleHandler serves /articles and the comments nested under an article.
type ArticleHandler struct {
	news   *news.Service
	logger *zap.Logger
}

func NewArticleHandler(svc *news.Service) *ArticleHandler {
	return &ArticleHandler{news: svc, logger: zap.NewNop()}
}

// RegisterRoutes registers the routes for this handler
func (h *ArticleHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	h.logger = logger.Named("articles")
	router.HandleFunc("/articles", h.listArticles).Methods(http.MethodGet)
	router.HandleFunc("/articles", h.createArticle).Methods(http.MethodPost)
	router.HandleFunc("/articles/{article_id}", h.getArticle).Methods(http.MethodGet)
	router.HandleFunc("/articles/{article_id}", h.updateArticleVotes).Methods(http.MethodPatch)
	router.HandleFunc("/articles/{article_id}", h.deleteArticle).Methods(http.MethodDelete)
	router.HandleFunc("/articles/{article_id}/comments", h.listComments).Methods(http.MethodGet)
	router.HandleFunc("/articles/{article_id}/comments", h.createComment).Methods(http.MethodPost)
}

func (h *ArticleHandler) listArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.news.ListArticles(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *ArticleHandler) getArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article_id")
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	article, err := h.news.GetArticle(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"article": article})
}

func (h *ArticleHandler) createArticle(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	article, err := h.news.CreateArticle(r.Context(), body)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"article": article})
}

func (h *ArticleHandler) updateArticleVotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article_id")
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	article, err := h.news.UpdateArticleVotes(r.Context(), id, body)
	if err != nil {
		writeError(w, h.logger, r, "article", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"article": article})
}

func (h *ArticleHandler) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article_id")
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	if _, err := h.news.DeleteArticle(r.Context(), id); err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ArticleHandler) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article_id")
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	list, err := h.news.ListComments(r.Context(), id, r.URL.Query())
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

func (h *ArticleHandler) createComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article_id")
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	comment, err := h.news.CreateComment(r.Context(), id, body)
	if err != nil {
		writeError(w, h.logger, r, "", err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}
