// Package api exposes the timecode engine and generator store over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/zsiec/smpte/internal/config"
	"github.com/zsiec/smpte/internal/errors"
	"github.com/zsiec/smpte/internal/generator"
)

// maxBodyBytes bounds request bodies; every request type is a few fields.
const maxBodyBytes = 64 << 10

// Handler serves the /api/v1 routes.
type Handler struct {
	store        generator.Store
	timecode     config.TimecodeConfig
	generators   config.GeneratorsConfig
	logger       *logrus.Logger
	errorHandler *errors.ErrorHandler
}

// New creates the API handler. store may be nil, in which case the
// generator routes are not registered.
func New(store generator.Store, tc config.TimecodeConfig, gens config.GeneratorsConfig, log *logrus.Logger) *Handler {
	return &Handler{
		store:        store,
		timecode:     tc,
		generators:   gens,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}
}

// Register mounts the API under /api/v1 on r.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/timecode/parse", h.handleParse).Methods(http.MethodPost)
	api.HandleFunc("/timecode/encode", h.handleEncode).Methods(http.MethodPost)
	api.HandleFunc("/timecode/decode", h.handleDecode).Methods(http.MethodGet)
	api.HandleFunc("/rates/{fps:[0-9]+}", h.handleRate).Methods(http.MethodGet)
	api.HandleFunc("/splice", h.handleSplice).Methods(http.MethodPost)

	if h.store == nil {
		return
	}
	api.HandleFunc("/generators", h.handleCreateGenerator).Methods(http.MethodPost)
	api.HandleFunc("/generators", h.handleListGenerators).Methods(http.MethodGet)
	api.HandleFunc("/generators/{id}", h.handleGetGenerator).Methods(http.MethodGet)
	api.HandleFunc("/generators/{id}", h.handleDeleteGenerator).Methods(http.MethodDelete)
	api.HandleFunc("/generators/{id}/increment", h.handleIncrement).Methods(http.MethodPost)
	api.HandleFunc("/generators/{id}/counter", h.handleSetCounter).Methods(http.MethodPut)
	api.HandleFunc("/generators/{id}/userbits", h.handleSetUserBits).Methods(http.MethodPut)
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler.HandleError(w, r, err)
}

// fpsOrDefault applies the configured default when the request leaves the
// rate out.
func (h *Handler) fpsOrDefault(fps *uint16) uint16 {
	if fps == nil {
		return h.timecode.DefaultFPS
	}
	return *fps
}

// dropFrameOrDefault applies the configured or rate-implied drop-frame mode.
func (h *Handler) dropFrameOrDefault(fps uint16, drop *bool) bool {
	if drop == nil {
		return h.timecode.DropFrameFor(fps)
	}
	return *drop
}

func (h *Handler) fieldFlagOrDefault(flag *bool) bool {
	if flag == nil {
		return h.timecode.FieldFlag
	}
	return *flag
}
