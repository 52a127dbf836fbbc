package utils

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// TemporaryStream is a read/write stream which starts off in memory
// and spills to a temporary file in the nominated directory once it
// grows past the initial size. It is used to buffer the manifest and
// the run log while the archive is still busy writing sample
// payloads. Close() removes any backing file.
type TemporaryStream struct {
	dir     string
	limit   int64
	buffer  *bytes.Buffer
	fd      *os.File
	size    int64
	reading bool
}

func NewTemporaryStream(dir string, initial_size int64) *TemporaryStream {
	return &TemporaryStream{
		dir:    dir,
		limit:  initial_size,
		buffer: &bytes.Buffer{},
	}
}

func (self *TemporaryStream) Write(p []byte) (int, error) {
	if self.reading {
		return 0, errors.New("TemporaryStream: write after rewind")
	}

	if self.fd != nil {
		n, err := self.fd.Write(p)
		self.size += int64(n)
		return n, err
	}

	if int64(self.buffer.Len()+len(p)) > self.limit {
		err := self.spill()
		if err != nil {
			return 0, err
		}
		return self.Write(p)
	}

	n, err := self.buffer.Write(p)
	self.size += int64(n)
	return n, err
}

// spill moves the memory buffer into a freshly created temp file. All
// further writes go to the file.
func (self *TemporaryStream) spill() error {
	fd, err := os.CreateTemp(self.dir, "getthis*.tmp")
	if err != nil {
		return errors.Wrap(err, "TemporaryStream spill")
	}

	_, err = fd.Write(self.buffer.Bytes())
	if err != nil {
		fd.Close()
		os.Remove(fd.Name())
		return errors.Wrap(err, "TemporaryStream spill")
	}

	self.fd = fd
	self.buffer = nil
	return nil
}

// Rewind prepares the stream for reading back from the start. Writes
// are rejected from here on.
func (self *TemporaryStream) Rewind() error {
	self.reading = true
	if self.fd != nil {
		_, err := self.fd.Seek(0, io.SeekStart)
		return err
	}
	return nil
}

func (self *TemporaryStream) Read(p []byte) (int, error) {
	if !self.reading {
		return 0, errors.New("TemporaryStream: read before rewind")
	}

	if self.fd != nil {
		return self.fd.Read(p)
	}
	return self.buffer.Read(p)
}

func (self *TemporaryStream) Size() int64 {
	return self.size
}

// Close releases the stream. Closing twice is harmless: the sink
// closes streams it consumed and the collector closes everything on
// the way out.
func (self *TemporaryStream) Close() error {
	if self.fd != nil {
		name := self.fd.Name()
		self.fd.Close()
		self.fd = nil
		return os.Remove(name)
	}

	self.buffer = nil
	return nil
}
