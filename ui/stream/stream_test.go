package stream

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func mjpegHandler(t *testing.T, frames [][]byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mw := multipart.NewWriter(w)
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
		w.WriteHeader(http.StatusOK)

		for _, frame := range frames {
			part, err := mw.CreatePart(textproto.MIMEHeader{
				"Content-Type": {"image/jpeg"},
			})
			if err != nil {
				return
			}
			if _, err := part.Write(frame); err != nil {
				return
			}
		}
		mw.Close()
	}
}

func TestRun_DeliversFrames(t *testing.T) {
	frames := [][]byte{
		encodeJPEG(t, 64, 48),
		encodeJPEG(t, 64, 48),
	}
	srv := httptest.NewServer(mjpegHandler(t, frames))
	defer srv.Close()

	got := make(chan image.Image, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Run(ctx, srv.URL, slog.Default(), func(img image.Image) {
			got <- img
		})
		close(done)
	}()

	for i := 0; i < len(frames); i++ {
		select {
		case img := <-got:
			if img.Bounds().Dx() != 64 {
				t.Errorf("frame %d width = %d, want 64", i, img.Bounds().Dx())
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("frame %d never delivered", i)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_SkipsTornFrames(t *testing.T) {
	frames := [][]byte{
		[]byte("not a jpeg"),
		encodeJPEG(t, 32, 24),
	}
	srv := httptest.NewServer(mjpegHandler(t, frames))
	defer srv.Close()

	got := make(chan image.Image, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, srv.URL, slog.Default(), func(img image.Image) {
		got <- img
	})

	select {
	case img := <-got:
		if img.Bounds().Dx() != 32 {
			t.Errorf("frame width = %d, want 32", img.Bounds().Dx())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("good frame after a torn one never delivered")
	}
}

func TestDownscale_CapsWidth(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	small := downscale(wide)
	if small.Bounds().Dx() != maxFrameWidth {
		t.Errorf("width = %d, want %d", small.Bounds().Dx(), maxFrameWidth)
	}
	if small.Bounds().Dy() != 540 {
		t.Errorf("height = %d, want 540", small.Bounds().Dy())
	}

	narrow := image.NewRGBA(image.Rect(0, 0, 640, 480))
	if downscale(narrow) != narrow {
		t.Error("frame under the cap was rescaled")
	}
}
