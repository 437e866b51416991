package main

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/quic-go/quic-go/http3"

	"github.com/zsiec/smpte/pkg/version"
)

func main() {
	var (
		baseURL string
		fps     uint
		text    string
		useH3   bool
	)
	flag.StringVar(&baseURL, "url", "https://localhost:8443", "Service base URL")
	flag.UintVar(&fps, "fps", 30, "Nominal frame rate")
	flag.StringVar(&text, "timecode", "01:00:00;00", "Timecode text to parse")
	flag.BoolVar(&useH3, "h3", true, "Use HTTP/3 (set false for plain HTTP/1.1)")
	flag.Parse()

	client := newClient(useH3)

	body, err := json.Marshal(map[string]interface{}{"fps": fps, "text": text})
	if err != nil {
		log.Fatalf("Failed to encode request: %v", err)
	}

	url := strings.TrimRight(baseURL, "/") + "/api/v1/timecode/parse"
	fmt.Printf("POST %s\n", url)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.GetInfo().UserAgent("test-client"))

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Protocol: %s\n", resp.Proto)
	fmt.Printf("Request ID: %s\n", resp.Header.Get("X-Request-ID"))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Printf("\nBody:\n%s\n", string(data))
		return
	}
	fmt.Printf("\nBody:\n%s\n", pretty.String())
}

func newClient(useH3 bool) *http.Client {
	if !useH3 {
		return &http.Client{Timeout: 10 * time.Second}
	}
	return &http.Client{
		Transport: &http3.RoundTripper{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
		Timeout: 10 * time.Second,
	}
}
