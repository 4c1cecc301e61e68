// Package enhance ships selected keyframes to an optional AI enhancement
// backend. The viewer works fully without it.
package enhance

import (
	"bytes"
	"image"
	"image/jpeg"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wearview/fitmirror/internal/logger"
)

// Config holds enhancement backend settings.
type Config struct {
	URL           string
	KeyframeEvery time.Duration
	JPEGQuality   int
}

// Uploader selects keyframes from the composited output and sends them to
// the backend. Uploads run off the render loop; a slow or absent backend
// never stalls tracking or rendering.
type Uploader struct {
	cfg     Config
	session string

	mu       sync.Mutex
	conn     *websocket.Conn
	lastSent time.Time
	closed   bool

	frames chan keyframe
	done   chan struct{}
}

type keyframe struct {
	id  string
	img *image.RGBA
}

// New creates an uploader and starts its send loop.
func New(cfg Config) *Uploader {
	u := &Uploader{
		cfg:     cfg,
		session: uuid.NewString(),
		frames:  make(chan keyframe, 1),
		done:    make(chan struct{}),
	}
	go u.run()
	return u
}

// Offer proposes a frame as a keyframe. Frames arriving before the
// keyframe interval has elapsed, or while an upload is still queued, are
// dropped.
func (u *Uploader) Offer(img *image.RGBA) {
	if img == nil {
		return
	}

	u.mu.Lock()
	if u.closed || time.Since(u.lastSent) < u.cfg.KeyframeEvery {
		u.mu.Unlock()
		return
	}
	u.lastSent = time.Now()
	u.mu.Unlock()

	select {
	case u.frames <- keyframe{id: uuid.NewString(), img: img}:
	default:
	}
}

// Close stops the uploader and discards any in-flight work.
func (u *Uploader) Close() {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return
	}
	u.closed = true
	conn := u.conn
	u.conn = nil
	u.mu.Unlock()

	close(u.done)
	if conn != nil {
		_ = conn.Close()
	}
}

func (u *Uploader) run() {
	for {
		select {
		case <-u.done:
			return
		case kf := <-u.frames:
			u.send(kf)
		}
	}
}

func (u *Uploader) send(kf keyframe) {
	conn, err := u.connection()
	if err != nil {
		logger.Warn("enhance backend unavailable", zap.Error(err))
		return
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, kf.img, &jpeg.Options{Quality: u.cfg.JPEGQuality}); err != nil {
		logger.Warn("keyframe encode failed", zap.Error(err))
		return
	}

	if err := conn.WriteJSON(map[string]any{
		"session": u.session,
		"id":      kf.id,
	}); err == nil {
		err = conn.WriteMessage(websocket.BinaryMessage, buf.Bytes())
	}
	if err != nil {
		logger.Warn("keyframe upload failed", zap.Error(err))
		u.dropConnection()
		return
	}

	logger.Debug("keyframe uploaded",
		zap.String("id", kf.id),
		zap.Int("bytes", buf.Len()),
	)
}

func (u *Uploader) connection() (*websocket.Conn, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.conn != nil {
		return u.conn, nil
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	if u.closed {
		_ = conn.Close()
		return nil, websocket.ErrCloseSent
	}
	u.conn = conn
	return conn, nil
}

func (u *Uploader) dropConnection() {
	u.mu.Lock()
	if u.conn != nil {
		_ = u.conn.Close()
		u.conn = nil
	}
	u.mu.Unlock()
}

func (u *Uploader) isClosed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.closed
}
