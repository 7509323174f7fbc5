// Raw kernel input records for the producer side of the pipeline.
package input

import (
	"io"

	"github.com/altdrag/altdrag/event"
)

type Source interface {
	// Read returns io.EOF when the source is exhausted.
	Read() (event.Record, error)
	String() string
}

const StreamSourceTag = "stream"

// StreamSource reads records from a byte stream, usually stdin fed by
// an interception tool.
type StreamSource struct {
	r    io.Reader
	name string
}

// compile-time interface compliance test
var _ Source = new(StreamSource)

func NewStreamSource(r io.Reader, name string) *StreamSource {
	if name == "" {
		name = StreamSourceTag
	}
	return &StreamSource{r: r, name: name}
}

func (self *StreamSource) String() string { return self.name }

func (self *StreamSource) Read() (event.Record, error) {
	return event.ReadRecord(self.r)
}
