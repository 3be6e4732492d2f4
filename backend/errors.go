package tkbackend

import "errors"

var (
	// ErrDoubleStart is returned when a connection (or the process-wide
	// wishapp connection) is started a second time.
	ErrDoubleStart = errors.New("tkbackend: connection already started")
	// ErrSpawn wraps failures to launch the host process.
	ErrSpawn      = errors.New("tkbackend: cannot start host process")
	ErrNotStarted = errors.New("tkbackend: connection not started")
	// ErrClosed is returned by Send and Eval after Terminate.
	ErrClosed = errors.New("tkbackend: connection closed")
	// ErrExited is returned to callers still waiting for a reply when the
	// host reports exit.
	ErrExited = errors.New("tkbackend: host exited")
	// ErrHostClosed means the host closed its output stream without
	// sending "exit" first.
	ErrHostClosed   = errors.New("tkbackend: host closed output stream")
	ErrInvalidUTF8  = errors.New("tkbackend: reply is not valid UTF-8")
	ErrReplyTimeout = errors.New("tkbackend: timed out waiting for reply")
)
