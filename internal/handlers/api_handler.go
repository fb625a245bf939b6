package handlers

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

//go:embed endpoints.json
var endpoints []byte

// APIHandler serves the endpoint catalogue at the root of the API.
type APIHandler struct{}

func NewAPIHandler() *APIHandler {
	return &APIHandler{}
}

// RegisterRoutes registers the routes for this handler
func (h *APIHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	router.HandleFunc("", h.getEndpoints).Methods(http.MethodGet)
}

func (h *APIHandler) getEndpoints(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, json.RawMessage(endpoints))
}
