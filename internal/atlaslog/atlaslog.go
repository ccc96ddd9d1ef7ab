// Package atlaslog provides the single process-wide logrus logger. Its only
// user is cmd/atlas; the binder, type checker, compiler, and both engines do
// not log. Callers never construct their own logger; they call Logger() and
// attach structured fields, the way the
// teacher's opcode dispatcher logs each registration with printf-style
// fields rather than ad hoc fmt.Println calls.
package atlaslog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.Mutex
	log = logrus.New()
)

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
}

// Logger returns the process-wide logger.
func Logger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return log
}

// SetLevel parses a level name ("debug", "info", "warn", "error") and applies
// it to the shared logger. An unrecognized name leaves the level unchanged.
func SetLevel(name string) {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	log.SetLevel(lvl)
}
