package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zsiec/smpte/internal/errors"
	"github.com/zsiec/smpte/internal/generator"
	"github.com/zsiec/smpte/internal/metrics"
	"github.com/zsiec/smpte/internal/splice"
	"github.com/zsiec/smpte/pkg/timecode"
)

type parseRequest struct {
	FPS       *uint16 `json:"fps"`
	Text      string  `json:"text"`
	FieldFlag *bool   `json:"field_flag"`
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	fps := h.fpsOrDefault(req.FPS)
	tc, err := timecode.Parse(fps, req.Text)
	metrics.RecordOperation("parse", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.timecode.StrictValidation {
		if err := tc.Components().Validate(tc.Rate(), tc.IsDropFrame()); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	metrics.RecordRate(fps, tc.IsDropFrame())
	h.writeJSON(w, r, http.StatusOK, generator.SnapshotOf(tc, h.fieldFlagOrDefault(req.FieldFlag)))
}

type encodeRequest struct {
	FPS       *uint16 `json:"fps"`
	DropFrame *bool   `json:"drop_frame"`
	Hours     uint32  `json:"hours"`
	Minutes   uint32  `json:"minutes"`
	Seconds   uint32  `json:"seconds"`
	Frames    uint32  `json:"frames"`
	FieldPair uint8   `json:"field_pair"`
	FieldFlag *bool   `json:"field_flag"`
}

func (h *Handler) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.FieldPair > 1 {
		h.writeError(w, r, errors.NewValidationError("field_pair must be 0 or 1"))
		return
	}

	fps := h.fpsOrDefault(req.FPS)
	drop := h.dropFrameOrDefault(fps, req.DropFrame)
	c := timecode.Components{
		Hours:   req.Hours,
		Minutes: req.Minutes,
		Seconds: req.Seconds,
		Frames:  req.Frames,
	}

	if h.timecode.StrictValidation {
		rate, err := timecode.NewRateTable(fps)
		if err == nil {
			err = c.Validate(rate, drop)
		}
		if err != nil {
			metrics.RecordOperation("encode", err)
			h.writeError(w, r, err)
			return
		}
	}

	tc, err := timecode.New(fps, drop, c, req.FieldPair)
	metrics.RecordOperation("encode", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.RecordRate(fps, drop)
	h.writeJSON(w, r, http.StatusOK, generator.SnapshotOf(tc, h.fieldFlagOrDefault(req.FieldFlag)))
}

func (h *Handler) handleDecode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	fps := h.timecode.DefaultFPS
	if v := q.Get("fps"); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			h.writeError(w, r, errors.NewValidationError(fmt.Sprintf("invalid fps %q", v)))
			return
		}
		fps = uint16(n)
	}

	drop := h.timecode.DropFrameFor(fps)
	if v := q.Get("drop_frame"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, r, errors.NewValidationError(fmt.Sprintf("invalid drop_frame %q", v)))
			return
		}
		drop = b
	}

	counter, err := strconv.ParseUint(q.Get("counter"), 10, 32)
	if err != nil {
		h.writeError(w, r, errors.NewValidationError(fmt.Sprintf("invalid counter %q", q.Get("counter"))))
		return
	}

	withField := h.timecode.FieldFlag
	if v := q.Get("field_flag"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, r, errors.NewValidationError(fmt.Sprintf("invalid field_flag %q", v)))
			return
		}
		withField = b
	}

	tc, err := timecode.FromCounter(fps, drop, uint32(counter))
	metrics.RecordOperation("decode", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.RecordRate(fps, drop)
	h.writeJSON(w, r, http.StatusOK, generator.SnapshotOf(tc, withField))
}

type rateResponse struct {
	timecode.RateTable
	FieldBased       bool    `json:"field_based"`
	CountsPerSecond  uint32  `json:"counts_per_second"`
	DefaultDropFrame bool    `json:"default_drop_frame"`
	FrameDurationNS  int64   `json:"frame_duration_ns"`
	ExactRate        float64 `json:"exact_rate"`
}

func (h *Handler) handleRate(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseUint(mux.Vars(r)["fps"], 10, 16)
	if err != nil {
		h.writeError(w, r, errors.NewValidationError("fps out of range"))
		return
	}

	rate, err := timecode.NewRateTable(uint16(n))
	metrics.RecordOperation("rate", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	drop := h.timecode.DropFrameFor(rate.FPS)
	exact := float64(rate.FPS)
	if drop {
		exact = exact * 1000 / 1001
	}

	h.writeJSON(w, r, http.StatusOK, rateResponse{
		RateTable:        rate,
		FieldBased:       rate.FieldBased(),
		CountsPerSecond:  rate.CountsPerSecond(),
		DefaultDropFrame: drop,
		FrameDurationNS:  rate.FrameDuration(drop).Nanoseconds(),
		ExactRate:        exact,
	})
}

type spliceRequest struct {
	FPS    *uint16        `json:"fps"`
	Ranges []splice.Point `json:"ranges"`
}

type spliceResponse struct {
	splice.Result
	TotalSeconds float64 `json:"total_seconds"`
}

func (h *Handler) handleSplice(w http.ResponseWriter, r *http.Request) {
	var req spliceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := splice.Build(h.fpsOrDefault(req.FPS), req.Ranges)
	metrics.RecordOperation("splice", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.AddSpliceRanges(len(res.Splice))
	h.writeJSON(w, r, http.StatusOK, spliceResponse{Result: res, TotalSeconds: res.TotalSeconds()})
}
