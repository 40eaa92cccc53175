package consts

import "errors"

// set by ldflags at build time
var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitTag    = "unknown"
)

var (
	ErrProtocol         = errors.New("protocol format error")
	ErrCursorRegression = errors.New("sequence cursor moved backward")
	ErrStreamAborted    = errors.New("stream processing aborted")
)
