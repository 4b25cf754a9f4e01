package combatlog

import "errors"

var (
	ErrMalformedLogLine = errors.New("malformed combat log line")
	ErrMissingField     = errors.New("combat log field missing")
	ErrBadTimestamp     = errors.New("invalid combat log timestamp")
)
