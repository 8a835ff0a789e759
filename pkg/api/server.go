package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/entrhq/screenboard/pkg/session"
)

// NewRouter builds the interactive API router.
func NewRouter(controller *session.Controller, log *logrus.Entry) *mux.Router {
	h := NewSessionHandler(controller, log)

	router := mux.NewRouter()
	router.Use(requestLogger(log))

	router.HandleFunc("/api/status", h.Status).Methods(http.MethodGet)
	router.HandleFunc("/api/config", h.Config).Methods(http.MethodGet)
	router.HandleFunc("/api/launch", h.Launch).Methods(http.MethodPost)
	router.HandleFunc("/api/goto", h.Goto).Methods(http.MethodPost)
	router.HandleFunc("/api/capture", h.Capture).Methods(http.MethodPost)
	router.HandleFunc("/api/validateSelector", h.ValidateSelector).Methods(http.MethodPost)
	router.HandleFunc("/api/record/start", h.RecordStart).Methods(http.MethodPost)
	router.HandleFunc("/api/record/stop", h.RecordStop).Methods(http.MethodPost)
	router.HandleFunc("/api/save", h.Save).Methods(http.MethodPost)
	router.HandleFunc("/api/close", h.Close).Methods(http.MethodPost)

	return router
}

// requestLogger logs every API request with its duration.
func requestLogger(log *logrus.Entry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			}).Debug("request")
		})
	}
}
