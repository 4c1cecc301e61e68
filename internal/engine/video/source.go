// Package video provides the live camera frame source.
package video

import "image"

// Source supplies the latest camera frame for compositing.
type Source interface {
	// Ready reports whether at least one frame has arrived.
	Ready() bool
	// Frame returns the most recent frame and its sequence number. The
	// sequence number lets the compositor skip re-uploading an unchanged
	// frame. The returned image must not be mutated.
	Frame() (*image.RGBA, uint64)
}
