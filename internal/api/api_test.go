package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/zsiec/smpte/internal/config"
	"github.com/zsiec/smpte/internal/errors"
	"github.com/zsiec/smpte/internal/generator"
)

func testConfig() (config.TimecodeConfig, config.GeneratorsConfig) {
	return config.TimecodeConfig{DefaultFPS: 30},
		config.GeneratorsConfig{Backend: "memory", MaxGenerators: 10, MaxIncrement: 1000}
}

func newTestRouter(t *testing.T, tc config.TimecodeConfig, gens config.GeneratorsConfig) *mux.Router {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	r := mux.NewRouter()
	New(generator.NewMemoryStore(gens.MaxGenerators), tc, gens, log).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func errorType(t *testing.T, rr *httptest.ResponseRecorder) errors.ErrorType {
	t.Helper()
	var resp errors.ErrorResponse
	decodeBody(t, rr, &resp)
	return resp.Error.Type
}

func u16(v uint16) *uint16 { return &v }

func boolp(v bool) *bool { return &v }
