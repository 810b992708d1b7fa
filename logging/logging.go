// Package logging provides the thin sim.Logger implementation used by the
// rest of the codebase, matching the teacher's unadorned stdlib-log idiom.
package logging

import (
	"fmt"
	"log"
	"os"
)

// Logger implements sim.Logger over the standard library's log package.
type Logger struct {
	infoLog  *log.Logger
	warnLog  *log.Logger
	fatalLog *log.Logger
}

// New builds a Logger writing to w, prefixed by level.
func New(w *os.File) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &Logger{
		infoLog:  log.New(w, "INFO  ", flags),
		warnLog:  log.New(w, "WARN  ", flags),
		fatalLog: log.New(w, "FATAL ", flags),
	}
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.infoLog.Printf(format, args...)
}

// Warnf implements sim.Logger.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.warnLog.Printf(format, args...)
}

// Fatalf implements sim.Logger. Unlike the standard library's log.Fatalf,
// this does not call os.Exit: a simulation-level fatal condition (a
// corrupted plan referencing a task or worker that no longer exists) is a
// bug in this codebase, not a reason to kill the host process out from
// under a caller that might want to recover or report it some other way.
// It logs at FATAL severity and panics, so a caller can still recover()
// if it chooses to.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.fatalLog.Print(msg)
	panic(fatalError(msg))
}

type fatalError string

func (f fatalError) Error() string { return string(f) }
