package engine

import (
	"context"
	"os"
	"syscall"

	"github.com/altdrag/altdrag/cmd/altdrag/subcmd"
	"github.com/altdrag/altdrag/muxer"
	"github.com/altdrag/altdrag/remap"
	"github.com/altdrag/altdrag/state"
	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
)

var Mod = subcmd.Mod{Name: "engine", Usage: "[engine]              run remap engine (default)", Main: Main}

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	if len(args) != 0 {
		return errors.NotValidf("engine unexpected arguments %q", args)
	}
	g.Log.Debugf("config=%+v", config)
	g.StopOnSignal(os.Interrupt, syscall.SIGTERM)

	opts := config.MuxerOptions()
	srv, err := muxer.NewServer(g.Log, opts, g.Alive.StopChan())
	if err != nil {
		return errors.Annotate(err, "muxer init")
	}
	defer srv.Close()

	eng := remap.New(g.Log, config.RemapConfig(), srv)
	subcmd.SdNotify(g.Log, daemon.SdNotifyReady)
	g.Log.Infof("engine running input=%s registration=%s", opts.InputPath(), opts.RegistrationPath())

	err = eng.Run(srv)
	subcmd.SdNotify(g.Log, "STOPPING=1")
	return err
}
