package internal

import (
	"log"
	"os"
)

// InitLogging sends the standard logger to stdout with UTC microsecond
// timestamps. A non-empty instance is prepended to every line so that
// several roadside units can share one log sink.
func InitLogging(instance string) {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.LUTC)
	if instance != "" {
		log.SetPrefix("[" + instance + "] ")
	} else {
		log.SetPrefix("")
	}
}
