package input

import (
	"os"

	"github.com/altdrag/altdrag/event"
	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
	"golang.org/x/sys/unix"
)

const DevInputEventTag = "dev-input-event"

// EVIOCGRAB = _IOW('E', 0x90, int)
const evioCGrab = 0x40044590

type DevInputEventSource struct {
	f       *os.File
	grabbed bool
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string {
	return DevInputEventTag + ":" + self.f.Name()
}

// NewDevInputEventSource opens /dev/input/eventN.
// With grab, no other client (compositor included) receives the device events
// until Close.
func NewDevInputEventSource(device string, grab bool) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s open", DevInputEventTag)
	}
	self := &DevInputEventSource{f: f}
	if grab {
		if err := self.ioctlGrab(1); err != nil {
			f.Close()
			return nil, errors.Annotatef(err, "%s grab device=%s", DevInputEventTag, device)
		}
		self.grabbed = true
	}
	return self, nil
}

func (self *DevInputEventSource) Read() (event.Record, error) {
	ie, err := inputevent.ReadOne(self.f)
	if err != nil {
		return event.Record{}, err
	}
	return event.FromInputEvent(ie), nil
}

func (self *DevInputEventSource) Close() error {
	if self.grabbed {
		_ = self.ioctlGrab(0)
		self.grabbed = false
	}
	return self.f.Close()
}

func (self *DevInputEventSource) ioctlGrab(on uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, self.f.Fd(), evioCGrab, on)
	if errno != 0 {
		return errno
	}
	return nil
}
