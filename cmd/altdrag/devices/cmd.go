package devices

import (
	"context"
	"fmt"
	"os"

	"github.com/altdrag/altdrag/cmd/altdrag/subcmd"
	"github.com/altdrag/altdrag/hardware/input"
	"github.com/altdrag/altdrag/state"
	"github.com/juju/errors"
)

var Mod = subcmd.Mod{Name: "devices", Usage: "devices                                list /dev/input event devices", Main: Main}

func Main(ctx context.Context, config *state.Config, args []string) error {
	if len(args) != 0 {
		return errors.NotValidf("devices unexpected arguments %q", args)
	}
	list, err := input.ListDevices()
	if err != nil {
		return err
	}
	for _, d := range list {
		fmt.Fprintf(os.Stdout, "%s\t%s\n", d.Path, d.Name)
	}
	return nil
}
