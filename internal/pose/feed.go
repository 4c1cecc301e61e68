package pose

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wearview/fitmirror/internal/logger"
)

// FeedConfig holds landmark feed connection settings.
type FeedConfig struct {
	URL            string
	ConnectTimeout time.Duration
	ReconnectDelay time.Duration
}

// message is one sample from the capture front-end. A detection miss is
// sent as an explicit null landmark array.
type message struct {
	Landmarks []Landmark `json:"landmarks"`
	Timestamp int64      `json:"ts"`
}

// Feed receives pose samples over WebSocket from the capture front-end.
// It keeps only the most recent sample; the render loop polls Latest at
// its own cadence and may see the same sample twice or skip samples.
type Feed struct {
	cfg FeedConfig

	mu     sync.Mutex
	latest *Pose
	closed bool
	conn   *websocket.Conn
}

// NewFeed creates a feed and starts its receive loop.
func NewFeed(cfg FeedConfig) *Feed {
	f := &Feed{cfg: cfg}
	go f.run()
	return f
}

// Latest returns the most recent pose sample, or nil if the detector
// reported no pose or nothing has arrived yet.
func (f *Feed) Latest() *Pose {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// Close shuts the feed down. Any in-flight read result is discarded.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	conn := f.conn
	f.conn = nil
	f.latest = nil
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
			logger.Warn("pose feed connect failed",
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

		logger.Info("pose feed connected", zap.String("url", f.cfg.URL))
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
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !f.isClosed() {
				logger.Warn("pose feed read failed", zap.Error(err))
			}
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("malformed pose message", zap.Error(err))
			continue
		}

		f.store(msg)
	}
}

// store converts a wire message into the latest pose. A sample with the
// wrong landmark count counts as a detection miss, not an error.
func (f *Feed) store(msg message) {
	var p *Pose
	if len(msg.Landmarks) == NumLandmarks {
		p = &Pose{}
		copy(p.Landmarks[:], msg.Landmarks)
	}

	f.mu.Lock()
	if !f.closed {
		f.latest = p
	}
	f.mu.Unlock()
}

func (f *Feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
