package in

import (
	"context"
	"flag"
	"os"

	"github.com/altdrag/altdrag/cmd/altdrag/subcmd"
	"github.com/altdrag/altdrag/hardware/input"
	"github.com/altdrag/altdrag/muxer"
	"github.com/altdrag/altdrag/state"
	"github.com/juju/errors"
)

var Mod = subcmd.Mod{Name: "in", Usage: "in kbd|mouse [-device PATH [-grab]]   relay input events to engine", Main: Main}

// Main relays records from stdin, or straight from evdev device.
// No signal handling: blocking read is interrupted only by process exit,
// kernel drops the grab with the fd.
func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	fs := flag.NewFlagSet("in", flag.ContinueOnError)
	device := fs.String("device", "", "read /dev/input/eventN instead of stdin")
	grab := fs.Bool("grab", false, "with -device, take exclusive access (EVIOCGRAB)")
	tagName, err := subcmd.ParseTag(fs, args)
	if err != nil {
		return err
	}
	if *grab && *device == "" {
		return errors.NotValidf("-grab without -device")
	}
	// fail on bad tag before touching device
	if _, err = muxer.ResolveTag(tagName); err != nil {
		return err
	}

	var source input.Source
	if *device != "" {
		dev, err := input.NewDevInputEventSource(*device, *grab)
		if err != nil {
			return err
		}
		defer dev.Close()
		source = dev
	} else {
		source = input.NewStreamSource(os.Stdin, "stdin")
	}
	return muxer.Input(g.Log, config.MuxerOptions(), tagName, source)
}
