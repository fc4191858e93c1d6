package polling

import "errors"

var (
	ErrInvalidPoll     = errors.New("invalid poll")
	ErrInvalidOption   = errors.New("invalid option")
	ErrPollNotFound    = errors.New("poll not found")
	ErrMessageNotFound = errors.New("poll message not found")

	// returned from update callbacks to abort without writing
	errPollClosed = errors.New("poll is closed")
)
