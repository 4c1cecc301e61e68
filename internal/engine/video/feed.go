package video

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wearview/fitmirror/internal/logger"
)

// FeedConfig holds camera feed connection settings.
type FeedConfig struct {
	URL            string
	ConnectTimeout time.Duration
	ReconnectDelay time.Duration
}

// Feed receives JPEG camera frames over WebSocket from the capture
// front-end and keeps only the most recent decoded frame.
type Feed struct {
	cfg FeedConfig

	mu     sync.Mutex
	frame  *image.RGBA
	seq    uint64
	closed bool
	conn   *websocket.Conn
}

// NewFeed creates a feed and starts its receive loop.
func NewFeed(cfg FeedConfig) *Feed {
	f := &Feed{cfg: cfg}
	go f.run()
	return f
}

// Ready reports whether at least one frame has arrived.
func (f *Feed) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame != nil
}

// Frame returns the most recent frame and its sequence number.
func (f *Feed) Frame() (*image.RGBA, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame, f.seq
}

// Close shuts the feed down.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	conn := f.conn
	f.conn = nil
	f.frame = nil
	f.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (f *Feed) run() {
	for {
		if f.isClosed() {
			return
		}

		dialer := websocket.Dialer{HandshakeTimeout: f.cfg.ConnectTimeout}
		conn, _, err := dialer.Dial(f.cfg.URL, nil)
		if err != nil {
			logger.Warn("video feed connect failed",
				zap.String("url", f.cfg.URL),
				zap.Error(err),
			)
			time.Sleep(f.cfg.ReconnectDelay)
			continue
		}

		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			_ = conn.Close()
			return
		}
		f.conn = conn
		f.mu.Unlock()

		logger.Info("video feed connected", zap.String("url", f.cfg.URL))
		f.readLoop(conn)

		if f.isClosed() {
			return
		}
		time.Sleep(f.cfg.ReconnectDelay)
	}
}

func (f *Feed) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !f.isClosed() {
				logger.Warn("video feed read failed", zap.Error(err))
			}
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}

		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			logger.Warn("bad camera frame", zap.Error(err))
			continue
		}

		f.store(toRGBA(img))
	}
}

func (f *Feed) store(img *image.RGBA) {
	f.mu.Lock()
	if !f.closed {
		f.frame = img
		f.seq++
	}
	f.mu.Unlock()
}

func (f *Feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
