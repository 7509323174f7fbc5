// Package fifo is a fixed-frame queue over a named pipe.
//
// Any number of processes may write; writes of at most PIPE_BUF bytes are
// atomic so frames never interleave. Only one process should read a given
// pipe, extra readers split the byte stream between them. Neither
// constraint is enforced here.
package fifo

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

// Linux PIPE_BUF, the atomic write limit
const pipeBuf = 4096

// ErrWouldBlock is returned by Read with positive timeout when no data arrived.
var ErrWouldBlock = errors.New("fifo would block")

func IsWouldBlock(err error) bool { return errors.Cause(err) == ErrWouldBlock }

type Fifo struct {
	path string
	size int
	fd   int
	f    *os.File
}

// Open creates the pipe if missing and opens it for both reading and appending.
// Holding the write side keeps reads from seeing EOF when all other writers go away.
func Open(path string, frameSize int) (*Fifo, error) {
	if frameSize <= 0 || frameSize > pipeBuf {
		return nil, errors.NotValidf("fifo frame size=%d", frameSize)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Annotatef(err, "fifo mkdir path=%s", path)
	}
	if err := unix.Mkfifo(path, 0o644); err != nil && err != unix.EEXIST {
		return nil, errors.Annotatef(err, "mkfifo path=%s", path)
	}

	// blocking fd on purpose: os.File then reads/writes without the runtime poller
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_APPEND|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Annotatef(err, "fifo open path=%s", path)
	}
	return &Fifo{
		path: path,
		size: frameSize,
		fd:   fd,
		f:    os.NewFile(uintptr(fd), path),
	}, nil
}

func (self *Fifo) Close() error   { return self.f.Close() }
func (self *Fifo) String() string { return self.path }

// Write sends one frame in a single write(2).
func (self *Fifo) Write(frame []byte) error {
	if len(frame) != self.size {
		return errors.NotValidf("fifo=%s write length=%d frame=%d", self.path, len(frame), self.size)
	}
	n, err := self.f.Write(frame)
	if err != nil {
		return errors.Annotatef(err, "fifo=%s write", self.path)
	}
	if n != len(frame) {
		return errors.Annotatef(io.ErrShortWrite, "fifo=%s write n=%d", self.path, n)
	}
	return nil
}

// Read returns one full frame.
// timeout<=0 blocks; timeout>0 waits for readiness first and fails with ErrWouldBlock.
// A partial frame is a hard error, never retried.
func (self *Fifo) Read(timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		ok, err := self.poll(timeout)
		if err != nil {
			return nil, errors.Annotatef(err, "fifo=%s poll", self.path)
		}
		if !ok {
			return nil, ErrWouldBlock
		}
	}
	// single read(2): writers send whole frames atomically, so a short read
	// means a broken writer and waiting for the rest could block forever
	buf := make([]byte, self.size)
	n, err := self.f.Read(buf)
	if err != nil {
		return nil, errors.Annotatef(err, "fifo=%s read", self.path)
	}
	if n != self.size {
		return nil, errors.Annotatef(io.ErrUnexpectedEOF, "fifo=%s read n=%d frame=%d", self.path, n, self.size)
	}
	return buf, nil
}

// HasAvailable reports readiness without consuming anything.
func (self *Fifo) HasAvailable() bool {
	ok, _ := self.poll(0)
	return ok
}

func (self *Fifo) poll(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(self.fd), Events: unix.POLLIN}}
	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}
	n, err := unix.Poll(fds, ms)
	if err == unix.EINTR {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n == 1 && fds[0].Revents&unix.POLLIN != 0, nil
}
