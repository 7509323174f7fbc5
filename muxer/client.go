package muxer

import (
	"io"

	"github.com/altdrag/altdrag/event"
	"github.com/altdrag/altdrag/fifo"
	"github.com/altdrag/altdrag/hardware/input"
	"github.com/altdrag/altdrag/log2"
	"github.com/juju/errors"
)

// Input relays every record from source into the shared input pipe tagged
// as tagName, until the source ends. Clean end of source is not an error.
func Input(log *log2.Log, opts Options, tagName string, source input.Source) error {
	tag, err := ResolveTag(tagName)
	if err != nil {
		return err
	}
	q, err := fifo.OpenEventQueue(opts.InputPath())
	if err != nil {
		return errors.Annotate(err, "open input queue")
	}
	defer q.Close()
	log.Infof("input tag=%d (%s) source=%s queue=%s", tag, tagName, source, q)

	n := 0
	for {
		r, err := source.Read()
		if err == io.EOF {
			log.Infof("input source=%s closed, relayed %d events", source, n)
			return nil
		}
		if err != nil {
			return errors.Annotatef(err, "input source=%s", source)
		}
		e := event.Decode(r, tag)
		if err = q.Write(e); err != nil {
			return errors.Annotate(err, "input queue")
		}
		n++
	}
}

// Output registers tagName with the engine, then writes every event from its
// output pipe to w. Returns when the pipe errors, the sink fails or stop is closed.
func Output(log *log2.Log, opts Options, tagName string, w io.Writer, stop <-chan struct{}) error {
	tag, err := ResolveTag(tagName)
	if err != nil {
		return err
	}
	if opts.Poll <= 0 {
		opts.Poll = DefaultPoll
	}

	// output pipe first, so engine opening it after registration finds it ready
	out, err := fifo.OpenEventQueue(opts.OutputPath(tag))
	if err != nil {
		return errors.Annotate(err, "open output queue")
	}
	defer out.Close()
	reg, err := fifo.OpenTagQueue(opts.RegistrationPath())
	if err != nil {
		return errors.Annotate(err, "open registration queue")
	}
	defer reg.Close()

	if err = reg.Write(tag); err != nil {
		return errors.Annotate(err, "register")
	}
	log.Infof("registered output tag=%d (%s) queue=%s", tag, tagName, out)

	for {
		select {
		case <-stop:
			return nil
		default:
		}
		e, err := out.Read(opts.Poll)
		if fifo.IsWouldBlock(err) {
			continue
		}
		if err != nil {
			return errors.Annotate(err, "output queue")
		}
		if err = event.WriteEvent(w, e); err != nil {
			return errors.Annotate(err, "output sink")
		}
	}
}
