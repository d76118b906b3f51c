// Package api is the HTTP client for the detection-and-solve backend. It
// owns the wire schemas of the backend's endpoints and the error policy:
// any non-success status surfaces as a human-readable error built from the
// response's error field when present, so every failure can land on the
// status line without crashing the interaction loop.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cube-roi-editor/internal/prediction"
	"cube-roi-editor/internal/roi"
)

// Client talks to one backend instance.
type Client struct {
	base string
	http *http.Client
	log  *slog.Logger
}

// New creates a client for the given base URL, e.g. "http://cube-pi:5000".
func New(base string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log,
	}
}

// roisEnvelope wraps ROI payloads on the wire.
type roisEnvelope struct {
	ROIs map[string][]roi.ROI `json:"rois"`
}

// DetectResponse is the body of POST /detect.
type DetectResponse struct {
	Timestamp float64                            `json:"timestamp"`
	Cameras   map[string][]prediction.Prediction `json:"cameras"`
}

// CaptureResponse is the body of POST /capture-state.
type CaptureResponse struct {
	CapturedAt    float64                            `json:"captured_at"`
	Faces         map[string][]string                `json:"faces"`
	Complete      bool                               `json:"complete"`
	KociembaInput string                             `json:"kociemba_input,omitempty"`
	KociembaError string                             `json:"kociemba_error,omitempty"`
	Detections    map[string][]prediction.Prediction `json:"detections,omitempty"`
}

// SolveRequest is the body of POST /solve.
type SolveRequest struct {
	CaptureFirst bool `json:"capture_first"`
	SendUART     bool `json:"send_uart"`
}

// UARTResult reports a command forwarded to the robot over serial.
type UARTResult struct {
	Port     string `json:"port"`
	Baud     int    `json:"baud,omitempty"`
	Sent     string `json:"sent,omitempty"`
	Response string `json:"response,omitempty"`
}

// SolveResponse is the body of POST /solve.
type SolveResponse struct {
	OK            bool        `json:"ok"`
	CapturedAt    float64     `json:"captured_at,omitempty"`
	KociembaInput string      `json:"kociemba_input"`
	Solution      string      `json:"solution"`
	UART          *UARTResult `json:"uart,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string            `json:"status"`
	CameraStatus map[string]string `json:"camera_status,omitempty"`
}

// FetchROIs loads the stored ROI layout for all cameras.
func (c *Client) FetchROIs(ctx context.Context) (map[string][]roi.ROI, error) {
	var out roisEnvelope
	if err := c.do(ctx, http.MethodGet, "/rois", nil, &out); err != nil {
		return nil, err
	}
	return out.ROIs, nil
}

// SaveROIs persists the given layout for all cameras.
func (c *Client) SaveROIs(ctx context.Context, cfg map[string][]roi.ROI) error {
	return c.do(ctx, http.MethodPost, "/rois", roisEnvelope{ROIs: cfg}, nil)
}

// ResetROIs resets one camera (or every camera when cameraID is empty) to
// the default layout and returns the full layout for all cameras.
func (c *Client) ResetROIs(ctx context.Context, cameraID string) (map[string][]roi.ROI, error) {
	body := map[string]interface{}{}
	if cameraID != "" {
		body["camera_id"] = cameraID
	}
	var out roisEnvelope
	if err := c.do(ctx, http.MethodPost, "/rois/reset", body, &out); err != nil {
		return nil, err
	}
	return out.ROIs, nil
}

// Detect runs color detection on the current frames of both cameras.
func (c *Client) Detect(ctx context.Context) (*DetectResponse, error) {
	var out DetectResponse
	if err := c.do(ctx, http.MethodPost, "/detect", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CaptureState detects all stickers and stores the assembled cube state on
// the backend.
func (c *Client) CaptureState(ctx context.Context) (*CaptureResponse, error) {
	var out CaptureResponse
	if err := c.do(ctx, http.MethodPost, "/capture-state", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CubeState returns the last captured cube state stored on the backend.
func (c *Client) CubeState(ctx context.Context) (*CaptureResponse, error) {
	var out CaptureResponse
	if err := c.do(ctx, http.MethodGet, "/cube-state", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Solve asks the backend to solve the captured cube state.
func (c *Client) Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error) {
	var out SolveResponse
	if err := c.do(ctx, http.MethodPost, "/solve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendUART forwards a raw command to the robot controller.
func (c *Client) SendUART(ctx context.Context, command string) (*UARTResult, error) {
	var out struct {
		OK   bool       `json:"ok"`
		UART UARTResult `json:"uart"`
	}
	body := map[string]string{"command": command}
	if err := c.do(ctx, http.MethodPost, "/uart/send", body, &out); err != nil {
		return nil, err
	}
	return &out.UART, nil
}

// Health reports backend liveness and camera status.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StreamURL returns the MJPEG stream URL for a camera.
func (c *Client) StreamURL(cameraID string) string {
	return c.base + "/stream/" + cameraID
}

// do performs one JSON request/response round trip. body and out may be
// nil. Transport errors are wrapped; application errors are extracted from
// the response error field.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %s", method, path, serverError(data, resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: unexpected response shape: %w", method, path, err)
		}
	}

	c.log.Debug("api call", "method", method, "path", path, "status", resp.StatusCode)
	return nil
}

// serverError prefers the backend's own error message, falling back to a
// generic status-based one.
func serverError(body []byte, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("server returned %d %s", status, http.StatusText(status))
}
