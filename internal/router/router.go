// Package router serves the expenses REST API on top of a storage backend.
package router

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/GustavoCaso/expenseview/internal/logger"
	"github.com/GustavoCaso/expenseview/internal/storage"
)

const apiPrefix = "/api/expenses"

type router struct {
	storage storage.Storage
	logger  *logger.Logger
	now     func() time.Time
}

func New(storage storage.Storage, logger *logger.Logger) http.Handler {
	router := &router{
		storage: storage,
		logger:  logger.With("component", "router"),
		now:     time.Now,
	}

	return router.handler()
}

func (router *router) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+apiPrefix, router.listHandler)
	mux.HandleFunc("POST "+apiPrefix, router.createHandler)
	mux.HandleFunc("GET "+apiPrefix+"/{id}", router.getHandler)
	mux.HandleFunc("PUT "+apiPrefix+"/{id}", router.updateHandler)
	mux.HandleFunc("DELETE "+apiPrefix+"/{id}", router.deleteHandler)
	mux.HandleFunc("GET "+apiPrefix+"/date-range", router.dateRangeHandler)
	mux.HandleFunc("GET "+apiPrefix+"/month/{year}/{month}", router.monthHandler)
	mux.HandleFunc("GET "+apiPrefix+"/recent", router.recentHandler)
	mux.HandleFunc("GET "+apiPrefix+"/sorted", router.sortedHandler)
	mux.HandleFunc("GET "+apiPrefix+"/summary", router.summaryHandler)
	mux.HandleFunc("GET "+apiPrefix+"/by-category", router.byCategoryHandler)
	mux.HandleFunc("GET "+apiPrefix+"/trend/{year}", router.trendHandler)

	return loggingMiddleware(router.logger, corsMiddleware(mux))
}

type errorResponse struct {
	Error string `json:"error"`
}

func (router *router) writeJSON(w http.ResponseWriter, status int, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		router.logger.Error("Failed to encode response", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func (router *router) writeError(w http.ResponseWriter, status int, message string) {
	router.writeJSON(w, status, errorResponse{Error: message})
}

// internalError logs err and answers 500 without leaking its details.
func (router *router) internalError(w http.ResponseWriter, r *http.Request, err error) {
	router.logger.Error("Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
	router.writeError(w, http.StatusInternalServerError, "internal server error")
}
