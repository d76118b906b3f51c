// Package stream consumes an MJPEG multipart stream and delivers decoded
// frames to the UI.
package stream

import (
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	xdraw "golang.org/x/image/draw"
)

// maxFrameWidth caps decoded frames; camera feeds can be larger than the
// widget ever shows, and scaling here keeps the render path cheap.
const maxFrameWidth = 960

// retryDelay is the pause between reconnect attempts.
const retryDelay = 2 * time.Second

// Run connects to an MJPEG stream URL and calls onFrame for every decoded
// frame until ctx is cancelled. Connection errors and short reads trigger
// a reconnect after a delay; the function only returns on cancellation.
func Run(ctx context.Context, url string, log *slog.Logger, onFrame func(image.Image)) {
	for {
		err := consume(ctx, url, onFrame)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Warn("stream interrupted", "url", url, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}

// consume reads one connection's worth of frames. Returns nil on a clean
// end of stream.
func consume(ctx context.Context, url string, onFrame func(image.Image)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("stream returned " + resp.Status)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	boundary, ok := params["boundary"]
	if !ok || mediaType != "multipart/x-mixed-replace" {
		return errors.New("not an MJPEG stream: " + mediaType)
	}

	reader := multipart.NewReader(resp.Body, boundary)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		img, _, err := image.Decode(part)
		part.Close()
		if err != nil {
			// A torn frame is not fatal; the next part may be whole.
			continue
		}
		onFrame(downscale(img))

		if ctx.Err() != nil {
			return nil
		}
	}
}

// downscale shrinks frames wider than maxFrameWidth, keeping aspect.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxFrameWidth {
		return img
	}
	scale := float64(maxFrameWidth) / float64(bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxFrameWidth, int(float64(bounds.Dy())*scale)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
