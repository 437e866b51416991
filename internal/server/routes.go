package server

import (
	"encoding/json"
	"net/http"

	"github.com/zsiec/smpte/pkg/version"
)

// handleVersion handles the /version endpoint
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	s.writeJSON(w, r, http.StatusOK, version.GetInfo())
}

type debugInfo struct {
	Protocols map[string]bool `json:"protocols"`
	Ports     map[string]int  `json:"ports"`
	RateLimit struct {
		Enabled bool `json:"enabled"`
		Clients int  `json:"clients"`
	} `json:"rate_limit"`
}

func (s *Server) handleDebugInfo(w http.ResponseWriter, r *http.Request) {
	var info debugInfo
	info.Protocols = map[string]bool{
		"http11": true,
		"http3":  s.http3Enabled(),
	}
	info.Ports = map[string]int{
		"http":  s.config.HTTPPort,
		"http3": s.config.HTTP3Port,
	}
	if s.limiter != nil {
		info.RateLimit.Enabled = true
		info.RateLimit.Clients = s.limiter.size()
	}
	s.writeJSON(w, r, http.StatusOK, info)
}

// writeJSON is a helper to write JSON responses
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("Failed to encode response")
	}
}
