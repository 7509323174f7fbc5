// Package log2 is a small leveled logger over stdlib log.
// Every pipeline stage writes developer-facing diagnostics to stderr,
// tests route the same output into t.Logf() so parallel tests stay readable.
package log2

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"testing"

	"github.com/mattn/go-isatty"
)

const ContextKey = "run/log"

const (
	// type specified here helped against accidentally passing flags as level
	Lmicroseconds     int = log.Lmicroseconds
	Lshortfile        int = log.Lshortfile
	LStdFlags         int = log.Ltime | Lshortfile
	LInteractiveFlags int = log.Ltime | Lshortfile | Lmicroseconds
	LServiceFlags     int = Lshortfile
	LTestFlags        int = Lshortfile | Lmicroseconds
)

type Level int32

const (
	LError Level = iota
	LInfo
	LDebug
)

type Log struct {
	l      *log.Logger
	level  Level
	w      io.Writer
	fatalf func(format string, args ...interface{})
}

func NewStderr(level Level) *Log { return NewWriter(os.Stderr, level) }

// NewStderrAuto picks flags by stderr kind: journald/pipes already add timestamps.
func NewStderrAuto(level Level) *Log {
	self := NewStderr(level)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		self.SetFlags(LInteractiveFlags)
	} else {
		self.SetFlags(LServiceFlags)
	}
	return self
}

func NewWriter(w io.Writer, level Level) *Log {
	if w == io.Discard {
		return nil
	}
	return &Log{
		l:     log.New(w, "", LStdFlags),
		level: level,
		w:     w,
	}
}

// testWriter sends each formatted line to t.Logf, trailing newline included.
type testWriter struct{ tb testing.TB }

func (self testWriter) Write(b []byte) (int, error) {
	self.tb.Helper()
	self.tb.Logf("%s", b)
	return len(b), nil
}

func NewTest(t testing.TB, level Level) *Log {
	self := NewWriter(testWriter{t}, level)
	self.SetFlags(LTestFlags)
	self.fatalf = t.Fatalf
	return self
}

func (self *Log) Clone(level Level) *Log {
	if self == nil {
		return nil
	}
	l := NewWriter(self.w, level)
	l.SetFlags(self.l.Flags())
	l.SetPrefix(self.l.Prefix())
	l.fatalf = self.fatalf
	return l
}

func (self *Log) SetLevel(l Level) {
	if self == nil {
		return
	}
	atomic.StoreInt32((*int32)(&self.level), int32(l))
}

func (self *Log) SetFlags(f int) {
	if self == nil {
		return
	}
	self.l.SetFlags(f)
}

func (self *Log) SetPrefix(prefix string) {
	if self == nil {
		return
	}
	self.l.SetPrefix(prefix)
}

func (self *Log) Enabled(level Level) bool {
	if self == nil {
		return false
	}
	return atomic.LoadInt32((*int32)(&self.level)) >= int32(level)
}

func (self *Log) Log(level Level, s string) {
	if self.Enabled(level) {
		_ = self.l.Output(3, s)
	}
}
func (self *Log) Logf(level Level, format string, args ...interface{}) {
	if self.Enabled(level) {
		_ = self.l.Output(3, fmt.Sprintf(format, args...))
	}
}

func (self *Log) Error(args ...interface{}) {
	self.Log(LError, "error: "+fmt.Sprint(args...))
}
func (self *Log) Errorf(format string, args ...interface{}) {
	self.Logf(LError, "error: "+format, args...)
}
func (self *Log) Info(args ...interface{}) {
	self.Log(LInfo, fmt.Sprint(args...))
}
func (self *Log) Infof(format string, args ...interface{}) {
	self.Logf(LInfo, format, args...)
}
func (self *Log) Debug(args ...interface{}) {
	self.Log(LDebug, "debug: "+fmt.Sprint(args...))
}
func (self *Log) Debugf(format string, args ...interface{}) {
	self.Logf(LDebug, "debug: "+format, args...)
}

// Fatal in tests fails the test, otherwise logs and exits with status 1.
func (self *Log) Fatalf(format string, args ...interface{}) {
	if self != nil && self.fatalf != nil {
		self.fatalf(format, args...)
		return
	}
	self.Logf(LError, "fatal: "+format, args...)
	os.Exit(1)
}
func (self *Log) Fatal(args ...interface{}) {
	s := fmt.Sprint(args...)
	if self != nil && self.fatalf != nil {
		self.fatalf("%s", s)
		return
	}
	self.Log(LError, "fatal: "+s)
	os.Exit(1)
}
