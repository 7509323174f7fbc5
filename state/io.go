package state

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// FullReader resolves config source names and reads whole sources.
type FullReader interface {
	Normalize(name string) string
	// nil,nil = not found
	ReadAll(name string) ([]byte, error)
}

// OsFullReader reads config files, relative names resolve against dir of the first source.
type OsFullReader struct {
	base string
}

func NewOsFullReader() *OsFullReader { return &OsFullReader{} }

func (self *OsFullReader) SetBase(dir string) { self.base = dir }

func (self *OsFullReader) Normalize(name string) string {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(self.base, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func (self *OsFullReader) ReadAll(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, errors.Trace(err)
	case fi.IsDir():
		return nil, errors.NotValidf("config path=%s is directory", path)
	}
	b, err := os.ReadFile(path)
	return b, errors.Trace(err)
}

// MockFullReader serves sources from memory, names are only cleaned.
type MockFullReader struct {
	sources map[string]string
}

func NewMockFullReader(sources map[string]string) *MockFullReader {
	return &MockFullReader{sources: sources}
}

func (self *MockFullReader) Normalize(name string) string { return filepath.Clean(name) }

func (self *MockFullReader) ReadAll(name string) ([]byte, error) {
	if s, ok := self.sources[name]; ok {
		return []byte(s), nil
	}
	return nil, nil
}
