package wowlogs

import "errors"

var (
	// ErrUnrecognizedSource means the directory is not a game log directory:
	// the sibling .flavor.info file is missing or has no flavour line.
	ErrUnrecognizedSource = errors.New("unrecognized log directory")
	ErrNoCurrentLogFile   = errors.New("no combat log file in directory")
)
