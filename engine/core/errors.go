package core

import (
	"errors"
)

var (
	// ErrSurfaceOutdated reports that the presentation surface no longer
	// matches the window (resize, minimize). The current frame is skipped;
	// the next frame proceeds against the reconfigured surface.
	ErrSurfaceOutdated = errors.New("presentation surface outdated")

	// ErrHandleExhausted reports that an asset registry ran out of handle
	// values. At 64-bit width this is a configuration limit, not an
	// expected runtime condition.
	ErrHandleExhausted = errors.New("asset handle counter exhausted")
)
