// Package api exposes the interactive session controller over HTTP for the
// web UI. Operation failures are reported as error responses; they never
// tear down the live session.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/entrhq/screenboard/pkg/config"
	"github.com/entrhq/screenboard/pkg/manifest"
	"github.com/entrhq/screenboard/pkg/session"
)

// SessionHandler serves the /api endpoints against one controller.
type SessionHandler struct {
	controller *session.Controller
	log        *logrus.Entry
}

// NewSessionHandler creates the handler set.
func NewSessionHandler(controller *session.Controller, log *logrus.Entry) *SessionHandler {
	return &SessionHandler{controller: controller, log: log}
}

// ErrorResponse is the envelope for failed operations.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondOpError maps an operation failure onto the wire. All failures are
// 500 with an error envelope; the session stays alive for retry.
func (h *SessionHandler) respondOpError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithError(err).WithField("path", r.URL.Path).Error("operation failed")
	respondError(w, http.StatusInternalServerError, err.Error())
}

func (h *SessionHandler) parseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		h.log.WithError(err).WithField("path", r.URL.Path).Warn("malformed request body")
		respondError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// Status handles GET /api/status.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.controller.Status())
}

// Config handles GET /api/config. Setup hooks are not serializable and drop
// out of the encoding.
func (h *SessionHandler) Config(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.controller.Config())
}

// LaunchRequest is the POST /api/launch body.
type LaunchRequest struct {
	BaseURL    string         `json:"baseUrl,omitempty"`
	Headless   *bool          `json:"headless,omitempty"`
	ViewportID string         `json:"viewportId,omitempty"`
	StateID    string         `json:"stateId,omitempty"`
	Config     *config.Config `json:"config,omitempty"`
}

// Launch handles POST /api/launch.
func (h *SessionHandler) Launch(w http.ResponseWriter, r *http.Request) {
	var req LaunchRequest
	if !h.parseJSON(w, r, &req) {
		return
	}

	err := h.controller.Launch(r.Context(), session.LaunchOptions{
		BaseURL:    req.BaseURL,
		Headless:   req.Headless,
		ViewportID: req.ViewportID,
		StateID:    req.StateID,
		Config:     req.Config,
	})
	if err != nil {
		h.respondOpError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.controller.Status())
}

// GotoRequest is the POST /api/goto body.
type GotoRequest struct {
	URL string `json:"url"`
}

// Goto handles POST /api/goto.
func (h *SessionHandler) Goto(w http.ResponseWriter, r *http.Request) {
	var req GotoRequest
	if !h.parseJSON(w, r, &req) {
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	if err := h.controller.Goto(req.URL); err != nil {
		h.respondOpError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.controller.Status())
}

// CaptureRequest is the POST /api/capture body.
type CaptureRequest struct {
	Name       string         `json:"name"`
	URL        string         `json:"url,omitempty"`
	ViewportID string         `json:"viewportId,omitempty"`
	StateID    string         `json:"stateId,omitempty"`
	Config     *config.Config `json:"config,omitempty"`
}

// CaptureResponse pairs the appended screen with its manifest entry.
type CaptureResponse struct {
	Screen config.Screen        `json:"screen"`
	Shot   manifest.ScreenEntry `json:"shot"`
}

// Capture handles POST /api/capture.
func (h *SessionHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	if !h.parseJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Config != nil {
		h.controller.UpdateConfig(*req.Config)
	}

	screen, shot, err := h.controller.Capture(session.CaptureOptions{
		Name:       req.Name,
		URL:        req.URL,
		ViewportID: req.ViewportID,
		StateID:    req.StateID,
	})
	if err != nil {
		h.respondOpError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, CaptureResponse{Screen: screen, Shot: shot})
}

// ValidateSelectorRequest is the POST /api/validateSelector body.
type ValidateSelectorRequest struct {
	Selector config.SelectorSpec `json:"selector"`
}

// ValidateSelectorResponse carries the match count; zero is a legitimate
// result.
type ValidateSelectorResponse struct {
	Count int `json:"count"`
}

// ValidateSelector handles POST /api/validateSelector.
func (h *SessionHandler) ValidateSelector(w http.ResponseWriter, r *http.Request) {
	var req ValidateSelectorRequest
	if !h.parseJSON(w, r, &req) {
		return
	}

	count, err := h.controller.ValidateSelector(req.Selector)
	if err != nil {
		h.respondOpError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ValidateSelectorResponse{Count: count})
}

// RecordStartRequest is the POST /api/record/start body.
type RecordStartRequest struct {
	Name string `json:"name"`
}

// RecordStart handles POST /api/record/start.
func (h *SessionHandler) RecordStart(w http.ResponseWriter, r *http.Request) {
	var req RecordStartRequest
	if !h.parseJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.controller.StartRecording(req.Name); err != nil {
		h.respondOpError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.controller.Status())
}

// RecordStop handles POST /api/record/stop. The response body is the
// finalized flow, or null when no recording was active.
func (h *SessionHandler) RecordStop(w http.ResponseWriter, r *http.Request) {
	f := h.controller.StopRecording()
	if f != nil {
		h.controller.AppendFlow(*f)
	}
	respondJSON(w, http.StatusOK, f)
}

// Save handles POST /api/save. A non-empty body replaces the working config
// before persisting the overlay file.
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var next *config.Config
	if r.ContentLength != 0 {
		next = &config.Config{}
		if !h.parseJSON(w, r, next) {
			return
		}
		if err := config.Validate(next); err != nil {
			var vErr *config.ValidationError
			if errors.As(err, &vErr) {
				respondError(w, http.StatusBadRequest, vErr.Error())
				return
			}
			h.respondOpError(w, r, err)
			return
		}
	}

	if err := h.controller.Save(next); err != nil {
		h.respondOpError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.controller.Config())
}

// Close handles POST /api/close.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.controller.Close()
	respondJSON(w, http.StatusOK, h.controller.Status())
}
