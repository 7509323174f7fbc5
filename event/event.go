// Package event is the bit-exact boundary between kernel input records and
// tagged events flowing through the pipeline.
package event

import (
	"fmt"
	"io"

	"github.com/temoto/inputevent-go"
)

// Tag identifies the physical device class an event came from.
type Tag uint8

const (
	TagKeyboard Tag = 0
	TagMouse    Tag = 1
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindSync
	KindKey
	KindMisc
	KindAbs
)

func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindKey:
		return "key"
	case KindMisc:
		return "misc"
	case KindAbs:
		return "abs"
	default:
		return "unknown"
	}
}

// KeyAction is the value of EV_KEY records.
type KeyAction int32

const (
	KeyRelease    = KeyAction(inputevent.KeyStateUp)
	KeyPress      = KeyAction(inputevent.KeyStateDown)
	KeyAutorepeat = KeyAction(inputevent.KeyStateHold)
)

func (a KeyAction) Known() bool { return a >= KeyRelease && a <= KeyAutorepeat }

func (a KeyAction) String() string {
	switch a {
	case KeyRelease:
		return "release"
	case KeyPress:
		return "press"
	case KeyAutorepeat:
		return "autorepeat"
	default:
		return fmt.Sprintf("action(%d)", int32(a))
	}
}

// Key is a logical key or button across all devices.
// Same numeric code on different tags is a different Key.
type Key struct {
	Tag  Tag
	Code uint16
}

func (k Key) Less(other Key) bool {
	if k.Tag != other.Tag {
		return k.Tag < other.Tag
	}
	return k.Code < other.Code
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s", k.Tag, CodeName(EvKey, k.Code))
}

// Event is a decoded Record plus source tag.
// Field meaning depends on Kind:
// Sync: Code, Value kept verbatim;
// Key: Code is key/button, Value is KeyAction;
// Misc: Code is MSC_* sub-type;
// Abs: Code is axis;
// Unknown: Class holds the original record class.
type Event struct {
	Tag   Tag
	Time  Timeval
	Kind  Kind
	Class uint16
	Code  uint16
	Value int32
}

// Decode never fails, any record is representable.
func Decode(r Record, tag Tag) Event {
	e := Event{Tag: tag, Time: r.Time, Code: r.Code, Value: r.Value}
	switch r.Type {
	case EvSyn:
		e.Kind = KindSync
	case EvKey:
		e.Kind = KindKey
	case EvMsc:
		e.Kind = KindMisc
	case EvAbs:
		e.Kind = KindAbs
	default:
		e.Kind = KindUnknown
		e.Class = r.Type
	}
	return e
}

// Encode is the exact inverse of Decode.
func (e Event) Encode() Record {
	r := Record{Time: e.Time, Code: e.Code, Value: e.Value}
	switch e.Kind {
	case KindSync:
		r.Type = EvSyn
	case KindKey:
		r.Type = EvKey
	case KindMisc:
		r.Type = EvMsc
	case KindAbs:
		r.Type = EvAbs
	default:
		r.Type = e.Class
	}
	return r
}

func NewKey(tag Tag, tv Timeval, code uint16, action KeyAction) Event {
	return Event{Tag: tag, Time: tv, Kind: KindKey, Code: code, Value: int32(action)}
}

func NewAbs(tag Tag, tv Timeval, axis uint16, value int32) Event {
	return Event{Tag: tag, Time: tv, Kind: KindAbs, Code: axis, Value: value}
}

func NewSync(tag Tag, tv Timeval) Event {
	return Event{Tag: tag, Time: tv, Kind: KindSync, Code: SynReport}
}

func (e Event) Key() Key { return Key{Tag: e.Tag, Code: e.Code} }

func (e Event) Action() KeyAction { return KeyAction(e.Value) }

func (e Event) IsPress() bool   { return e.Kind == KindKey && e.Action() == KeyPress }
func (e Event) IsRelease() bool { return e.Kind == KindKey && e.Action() == KeyRelease }
func (e Event) IsScan() bool    { return e.Kind == KindMisc && e.Code == MscScan }

func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		return fmt.Sprintf("Event(tag=%d key=%s %s)", e.Tag, CodeName(EvKey, e.Code), e.Action())
	case KindUnknown:
		return fmt.Sprintf("Event(tag=%d class=%d(%s) code=%d value=%d)", e.Tag, e.Class, ClassName(e.Class), e.Code, e.Value)
	default:
		r := e.Encode()
		return fmt.Sprintf("Event(tag=%d %s %s value=%d)", e.Tag, e.Kind, CodeName(r.Type, e.Code), e.Value)
	}
}

func ReadEvent(r io.Reader, tag Tag) (Event, error) {
	rec, err := ReadRecord(r)
	if err != nil {
		return Event{}, err
	}
	return Decode(rec, tag), nil
}

func WriteEvent(w io.Writer, e Event) error {
	return WriteRecord(w, e.Encode())
}
