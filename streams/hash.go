package streams

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"hash"
	"io"

	"www.velocidex.com/golang/getthis/utils"
)

// CryptoAlgorithm selects which digests a CryptoHashStream
// accumulates. Any subset may be combined.
type CryptoAlgorithm uint8

const (
	CryptoUndefined CryptoAlgorithm = 0
	CryptoMD5       CryptoAlgorithm = 1 << 0
	CryptoSHA1      CryptoAlgorithm = 1 << 1
	CryptoSHA256    CryptoAlgorithm = 1 << 2
)

// CryptoHashStream passes the source through while feeding every byte
// into the selected digests. Digests remain readable after the stream
// is closed.
type CryptoHashStream struct {
	source ByteStream

	md5_hash    hash.Hash
	sha1_hash   hash.Hash
	sha256_hash hash.Hash
	tee         io.Writer
}

func NewCryptoHashStream(source ByteStream, algs CryptoAlgorithm) *CryptoHashStream {
	self := &CryptoHashStream{source: source}

	writers := []io.Writer{}
	if algs&CryptoMD5 != 0 {
		self.md5_hash = md5.New()
		writers = append(writers, self.md5_hash)
	}
	if algs&CryptoSHA1 != 0 {
		self.sha1_hash = sha1.New()
		writers = append(writers, self.sha1_hash)
	}
	if algs&CryptoSHA256 != 0 {
		self.sha256_hash = sha256.New()
		writers = append(writers, self.sha256_hash)
	}
	self.tee = utils.NewTee(writers...)

	return self
}

func (self *CryptoHashStream) Read(p []byte) (int, error) {
	n, err := self.source.Read(p)
	if n > 0 {
		_, _ = self.tee.Write(p[:n])
	}
	return n, err
}

func (self *CryptoHashStream) Size() int64 {
	return self.source.Size()
}

func (self *CryptoHashStream) Close() error {
	return self.source.Close()
}

func (self *CryptoHashStream) MD5() []byte {
	if self.md5_hash == nil {
		return nil
	}
	return self.md5_hash.Sum(nil)
}

func (self *CryptoHashStream) SHA1() []byte {
	if self.sha1_hash == nil {
		return nil
	}
	return self.sha1_hash.Sum(nil)
}

func (self *CryptoHashStream) SHA256() []byte {
	if self.sha256_hash == nil {
		return nil
	}
	return self.sha256_hash.Sum(nil)
}
