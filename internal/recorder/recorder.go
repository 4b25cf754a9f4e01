package recorder

import "time"

// Recorder receives recording signals. Calls must not block the caller;
// implementations hand slow work to their own goroutines.
type Recorder interface {
	Start()
	Stop(meta Metadata, overrun time.Duration)
	StartBuffer()
	StopBuffer()
}

// Multi fans every signal out to each recorder in order.
type Multi []Recorder

func (m Multi) Start() {
	for _, r := range m {
		r.Start()
	}
}

func (m Multi) Stop(meta Metadata, overrun time.Duration) {
	for _, r := range m {
		r.Stop(meta, overrun)
	}
}

func (m Multi) StartBuffer() {
	for _, r := range m {
		r.StartBuffer()
	}
}

func (m Multi) StopBuffer() {
	for _, r := range m {
		r.StopBuffer()
	}
}
