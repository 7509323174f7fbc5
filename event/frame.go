package event

import (
	"github.com/juju/errors"
)

// Pipe frame: tag(1) reserved(3)=0 record(RecordSize).
// Keep FrameSize below PIPE_BUF so concurrent producer writes never interleave.
const (
	frameHeader = 4
	FrameSize   = frameHeader + RecordSize
)

func (e Event) MarshalFrame(b []byte) {
	_ = b[FrameSize-1]
	b[0] = byte(e.Tag)
	b[1], b[2], b[3] = 0, 0, 0
	e.Encode().MarshalTo(b[frameHeader:])
}

func ParseFrame(b []byte) (Event, error) {
	if len(b) != FrameSize {
		return Event{}, errors.NotValidf("event frame length=%d expected=%d", len(b), FrameSize)
	}
	if b[1] != 0 || b[2] != 0 || b[3] != 0 {
		return Event{}, errors.NotValidf("event frame reserved=%x", b[1:frameHeader])
	}
	r, err := ParseRecord(b[frameHeader:])
	if err != nil {
		return Event{}, errors.Trace(err)
	}
	return Decode(r, Tag(b[0])), nil
}
