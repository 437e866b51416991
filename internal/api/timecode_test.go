package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zsiec/smpte/internal/errors"
	"github.com/zsiec/smpte/internal/generator"
	"github.com/zsiec/smpte/pkg/timecode"
)

func TestHandleParse(t *testing.T) {
	tcCfg, genCfg := testConfig()
	router := newTestRouter(t, tcCfg, genCfg)

	tests := []struct {
		name        string
		body        interface{}
		wantStatus  int
		wantText    string
		wantCounter uint32
		wantDrop    bool
		wantMark    bool
		wantErr     errors.ErrorType
	}{
		{
			name:        "drop frame at default rate",
			body:        parseRequest{Text: "10:11:12;13"},
			wantStatus:  http.StatusOK,
			wantText:    "10:11:12;13",
			wantCounter: 1099073,
			wantDrop:    true,
		},
		{
			name:        "non-drop",
			body:        parseRequest{FPS: u16(25), Text: "10:11:12:13"},
			wantStatus:  http.StatusOK,
			wantText:    "10:11:12:13",
			wantCounter: 10*90000 + 11*1500 + 12*25 + 13,
		},
		{
			name:        "second field",
			body:        parseRequest{FPS: u16(60), Text: "10:11:12;13.1", FieldFlag: boolp(true)},
			wantStatus:  http.StatusOK,
			wantText:    "10:11:12;13.1",
			wantCounter: 1099073*2 + 1,
			wantDrop:    true,
			wantMark:    true,
		},
		{
			name:       "malformed text",
			body:       parseRequest{Text: "1:2:3:4"},
			wantStatus: http.StatusBadRequest,
			wantErr:    errors.ErrorTypeInvalidArgument,
		},
		{
			name:       "zero rate",
			body:       parseRequest{FPS: u16(0), Text: "00:00:00:00"},
			wantStatus: http.StatusBadRequest,
			wantErr:    errors.ErrorTypeValidation,
		},
		{
			name:       "unknown field",
			body:       `{"text":"00:00:00:00","rate":30}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    errors.ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, http.MethodPost, "/api/v1/timecode/parse", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantErr, errorType(t, rr))
				return
			}

			var snap generator.Snapshot
			decodeBody(t, rr, &snap)
			assert.Equal(t, tt.wantText, snap.Text)
			assert.Equal(t, tt.wantCounter, snap.Counter)
			assert.Equal(t, tt.wantDrop, snap.DropFrame)
			assert.Equal(t, tt.wantMark, snap.FieldMark)
		})
	}
}

func TestHandleParse_Strict(t *testing.T) {
	tcCfg, genCfg := testConfig()

	lenient := newTestRouter(t, tcCfg, genCfg)
	rr := do(t, lenient, http.MethodPost, "/api/v1/timecode/parse", parseRequest{FPS: u16(25), Text: "25:00:00:00"})
	assert.Equal(t, http.StatusOK, rr.Code)

	tcCfg.StrictValidation = true
	strict := newTestRouter(t, tcCfg, genCfg)
	rr = do(t, strict, http.MethodPost, "/api/v1/timecode/parse", parseRequest{FPS: u16(25), Text: "25:00:00:00"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errors.ErrorTypeValidation, errorType(t, rr))
}

func TestHandleEncode(t *testing.T) {
	tcCfg, genCfg := testConfig()
	router := newTestRouter(t, tcCfg, genCfg)

	t.Run("non-drop", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/v1/timecode/encode", encodeRequest{
			FPS: u16(25), Hours: 1, Minutes: 2, Seconds: 3, Frames: 4,
		})
		assert.Equal(t, http.StatusOK, rr.Code)

		var snap generator.Snapshot
		decodeBody(t, rr, &snap)
		assert.Equal(t, "01:02:03:04", snap.Text)
		assert.False(t, snap.DropFrame)
		assert.Equal(t, "0x01020304", snap.BCD)
	})

	t.Run("drop frame implied by rate", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/v1/timecode/encode", encodeRequest{Minutes: 10})
		assert.Equal(t, http.StatusOK, rr.Code)

		var snap generator.Snapshot
		decodeBody(t, rr, &snap)
		assert.Equal(t, "00:10:00;00", snap.Text)
		assert.Equal(t, uint32(17982), snap.Counter)
		assert.Equal(t, timecode.FlagDropFrame, snap.Flags)
	})

	t.Run("explicit non-drop at 30", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/v1/timecode/encode", encodeRequest{DropFrame: boolp(false), Minutes: 10})
		var snap generator.Snapshot
		decodeBody(t, rr, &snap)
		assert.Equal(t, "00:10:00:00", snap.Text)
		assert.Equal(t, uint32(18000), snap.Counter)
	})

	t.Run("field pair out of range", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/v1/timecode/encode", encodeRequest{FPS: u16(50), FieldPair: 2})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("strict rejects dropped label", func(t *testing.T) {
		strictCfg := tcCfg
		strictCfg.StrictValidation = true
		strict := newTestRouter(t, strictCfg, genCfg)

		rr := do(t, strict, http.MethodPost, "/api/v1/timecode/encode", encodeRequest{Minutes: 1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, errors.ErrorTypeValidation, errorType(t, rr))
	})
}

func TestHandleDecode(t *testing.T) {
	tcCfg, genCfg := testConfig()
	router := newTestRouter(t, tcCfg, genCfg)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantText   string
	}{
		{"last frame of minute", "?fps=30&counter=1799", http.StatusOK, "00:00:59;29"},
		{"skips dropped labels", "?fps=30&counter=1800", http.StatusOK, "00:01:00;02"},
		{"non-drop override", "?fps=30&drop_frame=false&counter=1800", http.StatusOK, "00:01:00:00"},
		{"default rate", "?counter=0", http.StatusOK, "00:00:00;00"},
		{"field flag", "?fps=50&counter=3&field_flag=true", http.StatusOK, "00:00:00:01.1"},
		{"missing counter", "?fps=30", http.StatusBadRequest, ""},
		{"bad drop flag", "?fps=30&drop_frame=maybe&counter=1", http.StatusBadRequest, ""},
		{"bad field flag", "?fps=50&counter=3&field_flag=sometimes", http.StatusBadRequest, ""},
		{"zero rate", "?fps=0&counter=1", http.StatusBadRequest, ""},
		{"rate overflows", "?fps=70000&counter=1", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, http.MethodGet, "/api/v1/timecode/decode"+tt.query, nil)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus == http.StatusOK {
				var snap generator.Snapshot
				decodeBody(t, rr, &snap)
				assert.Equal(t, tt.wantText, snap.Text)
			}
		})
	}
}

func TestHandleRate(t *testing.T) {
	tcCfg, genCfg := testConfig()
	router := newTestRouter(t, tcCfg, genCfg)

	t.Run("30", func(t *testing.T) {
		rr := do(t, router, http.MethodGet, "/api/v1/rates/30", nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp rateResponse
		decodeBody(t, rr, &resp)
		assert.Equal(t, uint32(30), resp.ScaledFPS)
		assert.Equal(t, uint32(1800), resp.FramesPerMinute)
		assert.Equal(t, uint32(1798), resp.DropFramesPerMinute)
		assert.Equal(t, uint32(17982), resp.DropFramesPer10Min)
		assert.Equal(t, uint32(107892), resp.DropFramesPerHour)
		assert.True(t, resp.DefaultDropFrame)
		assert.False(t, resp.FieldBased)
		assert.InDelta(t, 29.97, resp.ExactRate, 0.001)
	})

	t.Run("60 counts fields", func(t *testing.T) {
		rr := do(t, router, http.MethodGet, "/api/v1/rates/60", nil)
		var resp rateResponse
		decodeBody(t, rr, &resp)
		assert.Equal(t, uint32(30), resp.ScaledFPS)
		assert.Equal(t, uint32(60), resp.CountsPerSecond)
		assert.True(t, resp.FieldBased)
	})

	t.Run("zero", func(t *testing.T) {
		rr := do(t, router, http.MethodGet, "/api/v1/rates/0", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not a number", func(t *testing.T) {
		rr := do(t, router, http.MethodGet, "/api/v1/rates/abc", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleSplice(t *testing.T) {
	tcCfg, genCfg := testConfig()
	router := newTestRouter(t, tcCfg, genCfg)

	t.Run("ranges", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/v1/splice", map[string]interface{}{
			"fps": 25,
			"ranges": []map[string]string{
				{"in": "00:01:00:00", "out": "00:01:30:00"},
				{"in": "00:00:05:00", "out": "00:00:10:00"},
			},
		})
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp struct {
			Ranges       [][2]float64 `json:"ranges"`
			Union        [2]float64   `json:"union"`
			TotalSeconds float64      `json:"total_seconds"`
		}
		decodeBody(t, rr, &resp)
		assert.Equal(t, [][2]float64{{5, 10}, {60, 90}}, resp.Ranges)
		assert.Equal(t, [2]float64{5, 90}, resp.Union)
		assert.InDelta(t, 35, resp.TotalSeconds, 1e-9)
	})

	t.Run("out before in", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/v1/splice", map[string]interface{}{
			"fps":    25,
			"ranges": []map[string]string{{"in": "00:00:10:00", "out": "00:00:05:00"}},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/v1/splice", map[string]interface{}{"fps": 25})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
