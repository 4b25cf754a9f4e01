package app

import "errors"

var (
	ErrNoLogSource      = errors.New("no recognized combat log directory")
	ErrTestRunCancelled = errors.New("test recording cancelled")
)
