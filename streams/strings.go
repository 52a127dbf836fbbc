package streams

import (
	"bytes"
	"io"
)

// StringsStream extracts printable runs from a binary source. Both
// plain ASCII runs and UTF-16LE runs are recognized. Runs shorter
// than min_chars are dropped; a run reaching max_chars is flushed and
// a fresh run begins. Extracted runs are emitted in stream order
// separated by a single newline.
//
// The post transform size is unknowable before consumption so Size()
// reports 0.
type StringsStream struct {
	source ByteStream

	min_chars int
	max_chars int

	out     bytes.Buffer
	emitted bool

	ascii_run []byte

	wide_run     []byte
	wide_pending byte
	wide_open    bool

	chunk    []byte
	src_done bool
}

func NewStringsStream(source ByteStream, min_chars, max_chars int) *StringsStream {
	return &StringsStream{
		source:    source,
		min_chars: min_chars,
		max_chars: max_chars,
		chunk:     make([]byte, 32*1024),
	}
}

func printable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

func (self *StringsStream) emit(run []byte) {
	if len(run) < self.min_chars {
		return
	}
	if self.emitted {
		self.out.WriteByte('\n')
	}
	self.out.Write(run)
	self.emitted = true
}

func (self *StringsStream) feed(b byte) {
	// Plain ASCII run tracking.
	if printable(b) {
		self.ascii_run = append(self.ascii_run, b)
		if self.max_chars > 0 && len(self.ascii_run) >= self.max_chars {
			self.emit(self.ascii_run)
			self.ascii_run = nil
		}
	} else {
		self.emit(self.ascii_run)
		self.ascii_run = nil
	}

	// UTF-16LE run tracking: a printable low byte followed by a
	// zero high byte commits one character.
	if self.wide_open {
		if b == 0 {
			self.wide_run = append(self.wide_run, self.wide_pending)
			self.wide_open = false
			if self.max_chars > 0 && len(self.wide_run) >= self.max_chars {
				self.emit(self.wide_run)
				self.wide_run = nil
			}
			return
		}

		// Broken pair: close the current run and resync on this
		// byte.
		self.emit(self.wide_run)
		self.wide_run = nil
		self.wide_open = false
	}

	if printable(b) {
		self.wide_pending = b
		self.wide_open = true
	} else {
		self.emit(self.wide_run)
		self.wide_run = nil
	}
}

func (self *StringsStream) finish() {
	self.emit(self.ascii_run)
	self.ascii_run = nil

	self.emit(self.wide_run)
	self.wide_run = nil
	self.wide_open = false
}

func (self *StringsStream) fill() error {
	for self.out.Len() == 0 && !self.src_done {
		n, err := self.source.Read(self.chunk)
		for _, b := range self.chunk[:n] {
			self.feed(b)
		}

		if err == io.EOF {
			self.src_done = true
			self.finish()
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			self.src_done = true
			self.finish()
			return nil
		}
	}
	return nil
}

func (self *StringsStream) Read(p []byte) (int, error) {
	err := self.fill()
	if err != nil {
		return 0, err
	}

	if self.out.Len() == 0 {
		return 0, io.EOF
	}
	return self.out.Read(p)
}

func (self *StringsStream) Size() int64 {
	return 0
}

func (self *StringsStream) Close() error {
	return self.source.Close()
}
