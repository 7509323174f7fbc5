// Package muxer fans producer events into one input pipe and fans engine
// output back out to one pipe per tag.
//
// input pipe: many producers (`in` instances) write, the engine reads.
// output pipes: the engine writes, one consumer (`out` instance) per tag reads.
// registration pipe: consumers announce their tag, the engine creates the output pipe.
package muxer

import (
	"github.com/altdrag/altdrag/event"
	"github.com/altdrag/altdrag/fifo"
	"github.com/altdrag/altdrag/helpers"
	"github.com/altdrag/altdrag/log2"
	"github.com/juju/errors"
)

var ErrStopped = errors.New("muxer stopped")

type Server struct {
	Log  *log2.Log
	opts Options
	stop <-chan struct{}

	input        *fifo.EventQueue
	registration *fifo.TagQueue
	outputs      map[event.Tag]*fifo.EventQueue
}

// NewServer opens the input and registration pipes.
// Closing stop makes ReadInputEvent return ErrStopped at the next poll.
func NewServer(log *log2.Log, opts Options, stop <-chan struct{}) (*Server, error) {
	if opts.Poll <= 0 {
		opts.Poll = DefaultPoll
	}
	input, err := fifo.OpenEventQueue(opts.InputPath())
	if err != nil {
		return nil, errors.Annotate(err, "input queue")
	}
	registration, err := fifo.OpenTagQueue(opts.RegistrationPath())
	if err != nil {
		input.Close()
		return nil, errors.Annotate(err, "registration queue")
	}
	log.Debugf("muxer input=%s registration=%s", input, registration)
	return &Server{
		Log:          log,
		opts:         opts,
		stop:         stop,
		input:        input,
		registration: registration,
		outputs:      make(map[event.Tag]*fifo.EventQueue, 2),
	}, nil
}

// ReadInputEvent checks registrations between short reads of the input pipe,
// so a new consumer's output pipe exists within one poll interval.
func (self *Server) ReadInputEvent() (event.Event, error) {
	for {
		select {
		case <-self.stop:
			return event.Event{}, ErrStopped
		default:
		}

		self.acceptRegistrations()

		e, err := self.input.Read(self.opts.Poll)
		switch {
		case err == nil:
			return e, nil
		case fifo.IsWouldBlock(err):
			continue
		default:
			return event.Event{}, errors.Annotate(err, "muxer read input")
		}
	}
}

// WriteOutputEvent drops events for tags without a registered consumer.
// Nothing is buffered for late registrants.
func (self *Server) WriteOutputEvent(e event.Event) error {
	q, ok := self.outputs[e.Tag]
	if !ok {
		self.Log.Errorf("no output queue for tag=%d, dropped %s", e.Tag, e.String())
		return nil
	}
	if err := q.Write(e); err != nil {
		return errors.Annotatef(err, "muxer write output tag=%d", e.Tag)
	}
	return nil
}

func (self *Server) Registered(tag event.Tag) bool {
	_, ok := self.outputs[tag]
	return ok
}

func (self *Server) Close() error {
	errs := make([]error, 0, 2+len(self.outputs))
	errs = append(errs, self.input.Close(), self.registration.Close())
	for _, q := range self.outputs {
		errs = append(errs, q.Close())
	}
	return helpers.FoldErrors(errs)
}

func (self *Server) acceptRegistrations() {
	for self.registration.HasAvailable() {
		tag, err := self.registration.Read(-1)
		if err != nil {
			self.Log.Errorf("registration read err=%v", err)
			return
		}
		if _, ok := self.outputs[tag]; ok {
			// second consumer for the same tag is unsupported, the first keeps working
			self.Log.Errorf("output queue for tag=%d already exists", tag)
			continue
		}
		q, err := fifo.OpenEventQueue(self.opts.OutputPath(tag))
		if err != nil {
			self.Log.Errorf("output queue tag=%d err=%v", tag, errors.ErrorStack(err))
			continue
		}
		self.outputs[tag] = q
		self.Log.Infof("created output queue for tag=%d (%s) path=%s", tag, TagName(tag), q)
	}
}
