package analysts

import "errors"

var (
	// ErrReasoningUnavailable means no reasoning capability is configured.
	ErrReasoningUnavailable = errors.New("reasoning capability unavailable")
	// ErrReasoningFailure covers call errors, timeouts and unparseable output.
	ErrReasoningFailure = errors.New("reasoning failed")
	ErrUnparseable      = errors.New("unparseable recommendation")
)
