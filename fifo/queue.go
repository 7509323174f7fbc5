package fifo

import (
	"time"

	"github.com/altdrag/altdrag/event"
	"github.com/juju/errors"
)

// EventQueue carries tagged events, see event.FrameSize.
type EventQueue struct{ *Fifo }

func OpenEventQueue(path string) (*EventQueue, error) {
	f, err := Open(path, event.FrameSize)
	if err != nil {
		return nil, err
	}
	return &EventQueue{f}, nil
}

func (self *EventQueue) Write(e event.Event) error {
	var b [event.FrameSize]byte
	e.MarshalFrame(b[:])
	return self.Fifo.Write(b[:])
}

func (self *EventQueue) Read(timeout time.Duration) (event.Event, error) {
	b, err := self.Fifo.Read(timeout)
	if err != nil {
		return event.Event{}, err
	}
	e, err := event.ParseFrame(b)
	if err != nil {
		return event.Event{}, errors.Annotatef(err, "fifo=%s", self.path)
	}
	return e, nil
}

// TagQueue carries one-byte consumer registrations.
type TagQueue struct{ *Fifo }

func OpenTagQueue(path string) (*TagQueue, error) {
	f, err := Open(path, 1)
	if err != nil {
		return nil, err
	}
	return &TagQueue{f}, nil
}

func (self *TagQueue) Write(tag event.Tag) error {
	return self.Fifo.Write([]byte{byte(tag)})
}

func (self *TagQueue) Read(timeout time.Duration) (event.Tag, error) {
	b, err := self.Fifo.Read(timeout)
	if err != nil {
		return 0, err
	}
	return event.Tag(b[0]), nil
}
