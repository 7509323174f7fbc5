package state

import (
	"context"
	"testing"

	"github.com/altdrag/altdrag/log2"
)

// NewTestContext reads confString over defaults with fifo.dir in a fresh temp dir.
func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	// log := log2.NewStderr(log2.LDebug) // useful with panics
	config := MustReadConfig(log, fs, "test-inline")
	config.Fifo.Dir = t.TempDir()
	return NewContext(log, config)
}
