// Support sub-commands in altdrag application.
// It's simple but fine so far.
package subcmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/altdrag/altdrag/log2"
	"github.com/altdrag/altdrag/state"
	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
)

type Mod struct {
	Name  string
	Usage string
	Main  func(ctx context.Context, config *state.Config, args []string) error
}

func Parse(command string, modules []Mod) (*Mod, error) {
	if command == "" {
		return nil, errors.NotValidf("empty command")
	}

	var found *Mod
	for i := range modules {
		m := &modules[i]
		if m.Name == "" {
			panic(fmt.Sprintf("code error Name='' module=%#v", m))
		}
		if command == m.Name {
			found = m
			break
		}
	}
	if found == nil {
		return nil, errors.NotFoundf("command='%s'", command)
	}
	return found, nil
}

// ParseTag accepts `TAG [flags]` and `[flags] TAG`, exactly one positional.
// Flag set must use ContinueOnError.
func ParseTag(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", errors.NewNotValid(err, "arguments")
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return "", errors.NotValidf("missing tag argument")
	}
	tag := rest[0]
	if err := fs.Parse(rest[1:]); err != nil {
		return "", errors.NewNotValid(err, "arguments")
	}
	if fs.NArg() != 0 {
		return "", errors.NotValidf("unexpected arguments %q", fs.Args())
	}
	return tag, nil
}

func PrintUsage(w io.Writer, modules []Mod) {
	for _, m := range modules {
		fmt.Fprintf(w, "  %s\n", m.Usage)
	}
}

// SdNotify returns true when running under systemd with NOTIFY_SOCKET.
func SdNotify(log *log2.Log, s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Error("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
