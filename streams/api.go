// Byte stream layers for the sample collection pipeline. A pipeline
// is composed of a source stream wrapped by optional hash taps; the
// outermost layer is handed to the sink which consumes it exactly
// once.
package streams

import (
	"bytes"
	"io"
)

// ByteStream is a forward only stream of sample bytes. Size() is the
// expected number of bytes the stream will produce when that is known
// up front, or 0 when it is not (content transforms).
type ByteStream interface {
	io.ReadCloser

	Size() int64
}

// MemoryStream serves a byte slice. Used by tests and by finders
// which materialize attribute data in memory.
type MemoryStream struct {
	reader *bytes.Reader
	size   int64
}

func NewMemoryStream(data []byte) *MemoryStream {
	return &MemoryStream{
		reader: bytes.NewReader(data),
		size:   int64(len(data)),
	}
}

func (self *MemoryStream) Read(p []byte) (int, error) {
	return self.reader.Read(p)
}

func (self *MemoryStream) Size() int64 {
	return self.size
}

func (self *MemoryStream) Close() error {
	return nil
}

// DevNullStream swallows everything written to it. Off limit samples
// are drained into it so their hash taps still see the bytes.
type DevNullStream struct{}

func (self DevNullStream) Write(p []byte) (int, error) {
	return len(p), nil
}

// CountingStream passes its source through and remembers how many
// bytes were actually produced. The pipeline head is always a
// CountingStream so the manifest can report post transform sizes.
type CountingStream struct {
	source ByteStream
	count  int64
	closed bool
}

func NewCountingStream(source ByteStream) *CountingStream {
	return &CountingStream{source: source}
}

func (self *CountingStream) Read(p []byte) (int, error) {
	n, err := self.source.Read(p)
	self.count += int64(n)
	return n, err
}

func (self *CountingStream) Size() int64 {
	return self.source.Size()
}

// Count is the number of bytes read through the stream so far. Only
// final after the stream is consumed and closed.
func (self *CountingStream) Count() int64 {
	return self.count
}

func (self *CountingStream) Closed() bool {
	return self.closed
}

func (self *CountingStream) Close() error {
	if self.closed {
		return nil
	}
	self.closed = true
	return self.source.Close()
}
