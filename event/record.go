package event

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
)

// RecordSize is sizeof(struct input_event) on this platform:
// 24 bytes with 64-bit timeval, 16 bytes with 32-bit.
const RecordSize = inputevent.EventSizeof

const timevalWidth = (RecordSize - 8) / 2

var native = binary.NativeEndian

// Timeval is kept as raw kernel fields, unnormalized, so re-encoding is byte-identical.
type Timeval struct {
	Sec  int64
	Usec int64
}

func (tv Timeval) String() string { return fmt.Sprintf("%d.%06d", tv.Sec, tv.Usec) }

// Record is one kernel input event, the wire format shared with /dev/input
// and uinput injectors.
type Record struct {
	Time  Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// MarshalTo writes exactly RecordSize bytes into b.
func (r Record) MarshalTo(b []byte) {
	_ = b[RecordSize-1]
	switch timevalWidth {
	case 8:
		native.PutUint64(b[0:], uint64(r.Time.Sec))
		native.PutUint64(b[8:], uint64(r.Time.Usec))
	case 4:
		native.PutUint32(b[0:], uint32(r.Time.Sec))
		native.PutUint32(b[4:], uint32(r.Time.Usec))
	default:
		panic(fmt.Sprintf("code error unsupported timeval width=%d", timevalWidth))
	}
	off := 2 * timevalWidth
	native.PutUint16(b[off:], r.Type)
	native.PutUint16(b[off+2:], r.Code)
	native.PutUint32(b[off+4:], uint32(r.Value))
}

func (r Record) Marshal() []byte {
	b := make([]byte, RecordSize)
	r.MarshalTo(b)
	return b
}

// ParseRecord accepts any bit pattern of exactly RecordSize bytes.
func ParseRecord(b []byte) (Record, error) {
	if len(b) != RecordSize {
		return Record{}, errors.NotValidf("input event length=%d expected=%d", len(b), RecordSize)
	}
	var r Record
	switch timevalWidth {
	case 8:
		r.Time.Sec = int64(native.Uint64(b[0:]))
		r.Time.Usec = int64(native.Uint64(b[8:]))
	case 4:
		r.Time.Sec = int64(int32(native.Uint32(b[0:])))
		r.Time.Usec = int64(int32(native.Uint32(b[4:])))
	}
	off := 2 * timevalWidth
	r.Type = native.Uint16(b[off:])
	r.Code = native.Uint16(b[off+2:])
	r.Value = int32(native.Uint32(b[off+4:]))
	return r, nil
}

// FromInputEvent converts a record read by a device driver library.
func FromInputEvent(ie inputevent.InputEvent) Record {
	return Record{
		Time:  Timeval{Sec: int64(ie.Time.Sec), Usec: int64(ie.Time.Usec)},
		Type:  ie.Type,
		Code:  ie.Code,
		Value: ie.Value,
	}
}

// ReadRecord reads exactly one record.
// Clean end of stream is io.EOF, a partial record is io.ErrUnexpectedEOF.
func ReadRecord(r io.Reader) (Record, error) {
	var buf [RecordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Record{}, err
	}
	return ParseRecord(buf[:])
}

// WriteRecord issues one Write with exactly one record.
func WriteRecord(w io.Writer, r Record) error {
	var buf [RecordSize]byte
	r.MarshalTo(buf[:])
	n, err := w.Write(buf[:])
	if err != nil {
		return err
	}
	if n != RecordSize {
		return io.ErrShortWrite
	}
	return nil
}
