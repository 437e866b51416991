package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zsiec/smpte/internal/errors"
	"github.com/zsiec/smpte/internal/generator"
	"github.com/zsiec/smpte/internal/metrics"
	"github.com/zsiec/smpte/pkg/timecode"
)

type generatorResponse struct {
	*generator.Generator
	Timecode generator.Snapshot `json:"timecode"`
}

type createGeneratorRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	FPS       *uint16 `json:"fps"`
	DropFrame *bool   `json:"drop_frame"`
	Start     string  `json:"start"` // optional timecode text
	UserBits  uint32  `json:"user_bits"`
}

type incrementRequest struct {
	Count *uint32 `json:"count"`
}

// setCounterRequest takes either a raw counter or timecode text.
type setCounterRequest struct {
	Counter *uint32 `json:"counter"`
	Text    string  `json:"text"`
}

type setUserBitsRequest struct {
	UserBits uint32 `json:"user_bits"`
}

func (h *Handler) respondGenerator(w http.ResponseWriter, r *http.Request, status int, g *generator.Generator) {
	snap, err := g.Snapshot(h.timecode.FieldFlag)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, status, generatorResponse{Generator: g, Timecode: snap})
}

func (h *Handler) handleCreateGenerator(w http.ResponseWriter, r *http.Request) {
	var req createGeneratorRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	fps := h.fpsOrDefault(req.FPS)
	g := &generator.Generator{
		ID:        req.ID,
		Name:      req.Name,
		FPS:       fps,
		DropFrame: h.dropFrameOrDefault(fps, req.DropFrame),
		UserBits:  req.UserBits,
	}

	if req.Start != "" {
		start, err := timecode.Parse(fps, req.Start)
		metrics.RecordOperation("parse", err)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		// The separator in the start text decides the mode when the request
		// does not.
		if req.DropFrame == nil {
			g.DropFrame = start.IsDropFrame()
		} else if start.IsDropFrame() != g.DropFrame {
			h.writeError(w, r, errors.NewValidationError("start separator disagrees with drop_frame"))
			return
		}
		g.Counter = start.Counter()
	}

	if err := h.store.Create(r.Context(), g); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondGenerator(w, r, http.StatusCreated, g)
}

func (h *Handler) handleListGenerators(w http.ResponseWriter, r *http.Request) {
	gens, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]generatorResponse, 0, len(gens))
	for _, g := range gens {
		snap, err := g.Snapshot(h.timecode.FieldFlag)
		if err != nil {
			h.logger.WithError(err).WithField("generator_id", g.ID).Warn("Skipping generator with invalid rate")
			continue
		}
		out = append(out, generatorResponse{Generator: g, Timecode: snap})
	}

	h.writeJSON(w, r, http.StatusOK, struct {
		Generators []generatorResponse `json:"generators"`
		Count      int                 `json:"count"`
	}{out, len(out)})
}

func (h *Handler) handleGetGenerator(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondGenerator(w, r, http.StatusOK, g)
}

func (h *Handler) handleDeleteGenerator(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleIncrement(w http.ResponseWriter, r *http.Request) {
	var req incrementRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	count := uint32(1)
	if req.Count != nil {
		count = *req.Count
	}
	if count == 0 {
		h.writeError(w, r, errors.NewValidationError("count must be positive"))
		return
	}
	if limit := h.generators.MaxIncrement; limit > 0 && count > limit {
		h.writeError(w, r, errors.NewValidationError(fmt.Sprintf("count %d exceeds maximum %d", count, limit)))
		return
	}

	g, err := h.store.Increment(r.Context(), mux.Vars(r)["id"], count)
	metrics.RecordOperation("increment", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondGenerator(w, r, http.StatusOK, g)
}

func (h *Handler) handleSetCounter(w http.ResponseWriter, r *http.Request) {
	var req setCounterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	id := mux.Vars(r)["id"]
	var counter uint32
	switch {
	case req.Counter != nil && req.Text != "":
		h.writeError(w, r, errors.NewValidationError("set either counter or text, not both"))
		return
	case req.Counter != nil:
		counter = *req.Counter
	case req.Text != "":
		current, err := h.store.Get(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		tc, err := timecode.Parse(current.FPS, req.Text)
		metrics.RecordOperation("parse", err)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if tc.IsDropFrame() != current.DropFrame {
			h.writeError(w, r, errors.NewValidationError("text separator disagrees with generator drop_frame"))
			return
		}
		counter = tc.Counter()
	default:
		h.writeError(w, r, errors.NewValidationError("counter or text is required"))
		return
	}

	g, err := h.store.Set(r.Context(), id, counter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondGenerator(w, r, http.StatusOK, g)
}

func (h *Handler) handleSetUserBits(w http.ResponseWriter, r *http.Request) {
	var req setUserBitsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	g, err := h.store.SetUserBits(r.Context(), mux.Vars(r)["id"], req.UserBits)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondGenerator(w, r, http.StatusOK, g)
}
