// Command stubserver is a development stand-in for the detection backend.
// It serves the ROI endpoints against an in-memory layout, answers detect
// and solve with canned data, and streams synthetic MJPEG frames, so the
// editor can be exercised without the camera rig.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"cube-roi-editor/internal/prediction"
	"cube-roi-editor/internal/roi"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// stickerColors cycles through the detectable colors so canned detections
// look plausible in the overlay.
var stickerColors = []struct {
	code string
	name string
}{
	{"W", "White"},
	{"G", "Green"},
	{"R", "Red"},
	{"O", "Orange"},
	{"B", "Blue"},
	{"Y", "Yellow"},
}

// server holds the stub's mutable state.
type server struct {
	mu   sync.Mutex
	rois map[string][]roi.ROI

	captured bool
	faces    map[string][]string

	log *slog.Logger
}

func newServer(log *slog.Logger) *server {
	return &server{
		rois: roi.DefaultConfig(),
		log:  log,
	}
}

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := newServer(log)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/rois", srv.handleGetROIs)
	r.Post("/rois", srv.handleSaveROIs)
	r.Post("/rois/reset", srv.handleResetROIs)
	r.Post("/detect", srv.handleDetect)
	r.Post("/capture-state", srv.handleCaptureState)
	r.Get("/cube-state", srv.handleCubeState)
	r.Post("/solve", srv.handleSolve)
	r.Post("/uart/send", srv.handleUARTSend)
	r.Get("/stream/{camera}", srv.handleStream)

	log.Info("stub backend listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := make(map[string]string, len(roi.CameraIDs))
	for _, id := range roi.CameraIDs {
		status[id] = "ok"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"camera_status": status,
	})
}

func (s *server) snapshot() map[string][]roi.ROI {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]roi.ROI, len(s.rois))
	for id, list := range s.rois {
		out[id] = append([]roi.ROI(nil), list...)
	}
	return out
}

func (s *server) handleGetROIs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"rois": s.snapshot()})
}

func (s *server) handleSaveROIs(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ROIs map[string][]roi.ROI `json:"rois"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ROIs == nil {
		writeError(w, http.StatusBadRequest, "Provide {'rois': {'0': [...], '1': [...]}}")
		return
	}
	for id := range payload.ROIs {
		if !roi.ValidCamera(id) {
			writeError(w, http.StatusBadRequest, "Unknown camera id")
			return
		}
	}

	cfg := roi.ValidateConfig(payload.ROIs)
	s.mu.Lock()
	s.rois = cfg
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "rois": s.snapshot()})
}

func (s *server) handleResetROIs(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CameraID string `json:"camera_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if payload.CameraID != "" && !roi.ValidCamera(payload.CameraID) {
		writeError(w, http.StatusBadRequest, "Unknown camera id")
		return
	}

	s.mu.Lock()
	if payload.CameraID == "" {
		s.rois = roi.DefaultConfig()
	} else {
		s.rois[payload.CameraID] = roi.DefaultLayout(payload.CameraID)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "rois": s.snapshot()})
}

// detect fabricates one prediction per ROI, color cycling by index.
func (s *server) detect() map[string][]prediction.Prediction {
	cfg := s.snapshot()
	out := make(map[string][]prediction.Prediction, len(cfg))
	for cameraID, list := range cfg {
		preds := make([]prediction.Prediction, len(list))
		for i, rr := range list {
			c := stickerColors[(i/9)%len(stickerColors)]
			conf := 0.9 - float64(i%9)*0.01
			preds[i] = prediction.Prediction{
				ID:         rr.ID,
				Face:       rr.Face,
				Index:      rr.Index,
				Color:      c.code,
				ColorName:  c.name,
				Confidence: conf,
				Label:      fmt.Sprintf("%s%d%%", c.code, int(conf*100+0.5)),
			}
		}
		out[cameraID] = preds
	}
	return out
}

func (s *server) handleDetect(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timestamp": float64(time.Now().UnixNano()) / 1e9,
		"cameras":   s.detect(),
	})
}

// capture assembles a fully-solved face state from the canned detections.
func (s *server) capture() (map[string][]string, map[string][]prediction.Prediction) {
	detections := s.detect()
	faces := make(map[string][]string, len(roi.FaceOrder))
	for cameraID, preds := range detections {
		for _, face := range roi.CameraFaces[cameraID] {
			stickers := make([]string, 9)
			for _, p := range preds {
				if p.Face == face && p.Index >= 0 && p.Index < 9 {
					stickers[p.Index] = p.Color
				}
			}
			faces[face] = stickers
		}
	}

	s.mu.Lock()
	s.captured = true
	s.faces = faces
	s.mu.Unlock()
	return faces, detections
}

func (s *server) handleCaptureState(w http.ResponseWriter, r *http.Request) {
	faces, detections := s.capture()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"captured_at": float64(time.Now().UnixNano()) / 1e9,
		"faces":       faces,
		"complete":    true,
		"detections":  detections,
	})
}

func (s *server) handleCubeState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	captured, faces := s.captured, s.faces
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"faces":    faces,
		"complete": captured,
	})
}

func (s *server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CaptureFirst bool `json:"capture_first"`
		SendUART     bool `json:"send_uart"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if payload.CaptureFirst {
		s.capture()
	}

	s.mu.Lock()
	captured := s.captured
	s.mu.Unlock()
	if !captured {
		writeError(w, http.StatusBadRequest, "Cube state is incomplete. Capture a full state first.")
		return
	}

	resp := map[string]interface{}{
		"ok":             true,
		"captured_at":    float64(time.Now().UnixNano()) / 1e9,
		"kociemba_input": "UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB",
		"solution":       "R U R' U R U2 R'",
	}
	if payload.SendUART {
		resp["uart"] = map[string]interface{}{
			"port":     "/dev/ttyAMA0",
			"baud":     115200,
			"sent":     "R U R' U R U2 R'",
			"response": "OK",
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleUARTSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Command string `json:"command"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"uart": map[string]interface{}{
			"port":     "/dev/ttyAMA0",
			"baud":     115200,
			"sent":     payload.Command,
			"response": "OK",
		},
	})
}

// handleStream emits a synthetic MJPEG feed: a slowly shifting solid frame
// per camera, ~5 fps.
func (s *server) handleStream(w http.ResponseWriter, r *http.Request) {
	cameraID := chi.URLParam(r, "camera")
	if !roi.ValidCamera(cameraID) {
		writeError(w, http.StatusNotFound, "Unknown camera id")
		return
	}

	const boundary = "frame"
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var phase uint8
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		frame, err := syntheticFrame(cameraID, phase)
		phase += 4
		if err != nil {
			s.log.Error("encode frame", "error", err)
			return
		}

		if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", boundary, len(frame)); err != nil {
			return
		}
		if _, err := w.Write(frame); err != nil {
			return
		}
		if _, err := fmt.Fprint(w, "\r\n"); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func syntheticFrame(cameraID string, phase uint8) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	base := color.RGBA{R: 40, G: 60 + phase, B: 90, A: 255}
	if cameraID == roi.CameraIDs[1] {
		base = color.RGBA{R: 90, G: 40, B: 60 + phase, A: 255}
	}
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.SetRGBA(x, y, base)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 60}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
