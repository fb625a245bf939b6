package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shaibs3/ncnews/internal/handlers"
	"github.com/shaibs3/ncnews/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// APIPrefix is the path every resource route is mounted under.
const APIPrefix = "/api"

// Handler registers its routes on the API subrouter.
type Handler interface {
	RegisterRoutes(router *mux.Router, logger *zap.Logger)
}

// Router represents the HTTP router
type Router struct {
	mux    *mux.Router
	logger *zap.Logger
}

// NewRouter builds the router with the operational endpoints, the API
// handlers and the middleware chain. tel may be nil.
func NewRouter(limiter *rate.Limiter, tel *telemetry.Telemetry, logger *zap.Logger, handlerList []Handler) *Router {
	routerLogger := logger.Named("router")
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if tel != nil {
		r.Handle("/metrics", tel.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix(APIPrefix).Subrouter()
	for _, h := range handlerList {
		h.RegisterRoutes(api, logger)
	}

	for _, m := range []*mux.Router{r, api} {
		m.NotFoundHandler = http.HandlerFunc(notFound)
		m.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}

	r.Use(accessLogMiddleware(routerLogger))
	if limiter != nil {
		r.Use(rateLimitMiddleware(limiter, routerLogger))
	}
	if tel != nil {
		mw, err := metricsMiddleware(tel.Meter)
		if err != nil {
			routerLogger.Error("failed to create request metrics, continuing without them", zap.Error(err))
		} else {
			r.Use(mw)
		}
	}

	return &Router{mux: r, logger: routerLogger}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	handlers.WriteMessage(w, http.StatusNotFound, "Invalid URL")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	handlers.WriteMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// CreateServer returns an http.Server serving this router on addr.
func (r *Router) CreateServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
