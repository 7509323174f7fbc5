package out

import (
	"context"
	"os"
	"syscall"

	"github.com/altdrag/altdrag/cmd/altdrag/subcmd"
	"github.com/altdrag/altdrag/muxer"
	"github.com/altdrag/altdrag/state"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
)

var Mod = subcmd.Mod{Name: "out", Usage: "out kbd|mouse                          write engine output events to stdout", Main: Main}

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	if len(args) != 1 {
		return errors.NotValidf("out expected exactly one tag argument, got %q", args)
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		g.Log.Errorf("stdout is terminal, binary records expected to be piped into virtual device")
	}
	g.StopOnSignal(os.Interrupt, syscall.SIGTERM)
	return muxer.Output(g.Log, config.MuxerOptions(), args[0], os.Stdout, g.Alive.StopChan())
}
