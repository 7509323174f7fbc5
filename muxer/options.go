package muxer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/altdrag/altdrag/event"
	"github.com/juju/errors"
)

const (
	DefaultDir    = "/tmp"
	DefaultPrefix = "fix-niri-altdrag"
	DefaultPoll   = 10 * time.Millisecond
)

// Options locate the shared pipes. All processes of one pipeline must agree on them.
type Options struct {
	Dir    string
	Prefix string
	// Poll bounds each input read, it is also the registration check interval.
	Poll time.Duration
}

func DefaultOptions() Options {
	return Options{Dir: DefaultDir, Prefix: DefaultPrefix, Poll: DefaultPoll}
}

func (o Options) InputPath() string {
	return filepath.Join(o.Dir, o.Prefix+"-input")
}

// OutputPath is prefix + tag value.
func (o Options) OutputPath(tag event.Tag) string {
	return filepath.Join(o.Dir, fmt.Sprintf("%s-output-%d", o.Prefix, tag))
}

func (o Options) RegistrationPath() string {
	return filepath.Join(o.Dir, o.Prefix+"-registration")
}

var tagNames = []struct {
	name string
	tag  event.Tag
}{
	{"kbd", event.TagKeyboard},
	{"mouse", event.TagMouse},
}

func ResolveTag(name string) (event.Tag, error) {
	if name == "" {
		return 0, errors.NotValidf("empty tag name")
	}
	for _, x := range tagNames {
		if x.name == name {
			return x.tag, nil
		}
	}
	return 0, errors.NotFoundf("tag name=%s", name)
}

func TagName(tag event.Tag) string {
	for _, x := range tagNames {
		if x.tag == tag {
			return x.name
		}
	}
	return fmt.Sprintf("tag(%d)", tag)
}
