package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shaibs3/ncnews/internal/apierr"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies at 1MB.
const maxBodyBytes = 1 << 20

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes the {"msg": ...} body every failure is rendered with.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"msg": msg})
}

// writeError renders a failed operation. An EmptyBody failure carrying the
// current resource is rendered as that resource under key.
func writeError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, key string, err error) {
	e := apierr.Classify(err)
	if e.Kind == apierr.EmptyBody && e.Resource != nil {
		WriteJSON(w, e.Kind.Status(), map[string]any{key: e.Resource})
		return
	}

	status := e.Kind.Status()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		logger.Debug("request rejected",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	WriteMessage(w, status, e.Msg)
}

// pathID reads a numeric path variable.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, apierr.Wrap(apierr.InvalidID, err)
	}
	return id, nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, apierr.Wrap(apierr.InvalidBody, err)
	}
	return body, nil
}
