package streams

import (
	"bufio"
	"bytes"

	"github.com/glaslos/ssdeep"
	"github.com/glaslos/tlsh"
)

// FuzzyAlgorithm selects the fuzzy digests a FuzzyHashStream
// computes.
type FuzzyAlgorithm uint8

const (
	FuzzyUndefined FuzzyAlgorithm = 0
	FuzzySSDeep    FuzzyAlgorithm = 1 << 0
	FuzzyTLSH      FuzzyAlgorithm = 1 << 1
)

func init() {
	// Samples are frequently below the ssdeep minimum input size;
	// hash them anyway like the rest of the pipeline does.
	ssdeep.Force = true
}

// FuzzyHashStream passes the source through and computes SSDeep and
// TLSH digests when it is closed. Both algorithms need the complete
// input to pick their block sizes, so the tap buffers the bytes it
// sees and hashes on Close. TLSH needs at least 256 bytes of varied
// input; when it gets less the digest is left empty, which is not an
// error.
type FuzzyHashStream struct {
	source ByteStream
	algs   FuzzyAlgorithm
	buffer bytes.Buffer

	ssdeep_result string
	tlsh_result   string
}

func NewFuzzyHashStream(source ByteStream, algs FuzzyAlgorithm) *FuzzyHashStream {
	return &FuzzyHashStream{
		source: source,
		algs:   algs,
	}
}

func (self *FuzzyHashStream) Read(p []byte) (int, error) {
	n, err := self.source.Read(p)
	if n > 0 {
		self.buffer.Write(p[:n])
	}
	return n, err
}

func (self *FuzzyHashStream) Size() int64 {
	return self.source.Size()
}

func (self *FuzzyHashStream) Close() error {
	data := self.buffer.Bytes()

	if self.algs&FuzzySSDeep != 0 && self.ssdeep_result == "" {
		digest, err := ssdeep.FuzzyBytes(data)
		if err == nil {
			self.ssdeep_result = digest
		}
	}

	if self.algs&FuzzyTLSH != 0 && self.tlsh_result == "" {
		digest, err := tlsh.HashReader(
			bufio.NewReader(bytes.NewReader(data)))
		if err == nil {
			self.tlsh_result = digest.String()
		}
	}

	self.buffer.Reset()
	return self.source.Close()
}

func (self *FuzzyHashStream) SSDeep() string {
	return self.ssdeep_result
}

func (self *FuzzyHashStream) TLSH() string {
	return self.tlsh_result
}
