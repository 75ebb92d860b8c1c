package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// reset clears the process logger so the next Init rebuilds it.
func reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}
