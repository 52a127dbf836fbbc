package streams

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoHashStreamAllAlgorithms(t *testing.T) {
	content := []byte("the quick brown fox")

	stream := NewCryptoHashStream(NewMemoryStream(content),
		CryptoMD5|CryptoSHA1|CryptoSHA256)

	var sink bytes.Buffer
	_, err := io.Copy(&sink, stream)
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	// Pass through is byte exact.
	assert.Equal(t, content, sink.Bytes())

	md5_sum := md5.Sum(content)
	sha1_sum := sha1.Sum(content)
	sha256_sum := sha256.Sum256(content)

	assert.Equal(t, md5_sum[:], stream.MD5())
	assert.Equal(t, sha1_sum[:], stream.SHA1())
	assert.Equal(t, sha256_sum[:], stream.SHA256())
}

func TestCryptoHashStreamSubset(t *testing.T) {
	stream := NewCryptoHashStream(
		NewMemoryStream([]byte("data")), CryptoMD5)

	_, err := io.Copy(io.Discard, stream)
	require.NoError(t, err)

	assert.NotNil(t, stream.MD5())
	assert.Nil(t, stream.SHA1())
	assert.Nil(t, stream.SHA256())
}

func TestFuzzyHashStreamLargeInput(t *testing.T) {
	// Varied content well above the TLSH minimum.
	content := make([]byte, 4096)
	for i := range content {
		content[i] = byte(i*7 + i/13)
	}

	stream := NewFuzzyHashStream(
		NewMemoryStream(content), FuzzySSDeep|FuzzyTLSH)

	_, err := io.Copy(io.Discard, stream)
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	assert.NotEmpty(t, stream.SSDeep())
	assert.NotEmpty(t, stream.TLSH())
}

func TestFuzzyHashStreamTinyInputLeavesTLSHEmpty(t *testing.T) {
	stream := NewFuzzyHashStream(
		NewMemoryStream([]byte("tiny")), FuzzyTLSH)

	_, err := io.Copy(io.Discard, stream)
	require.NoError(t, err)

	// Closing with insufficient input is not an error; the digest
	// just stays empty.
	require.NoError(t, stream.Close())
	assert.Empty(t, stream.TLSH())
}

func TestCountingStream(t *testing.T) {
	content := []byte("0123456789")
	stream := NewCountingStream(NewMemoryStream(content))

	assert.Equal(t, int64(10), stream.Size())
	assert.False(t, stream.Closed())

	_, err := io.Copy(io.Discard, stream)
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	assert.Equal(t, int64(10), stream.Count())
	assert.True(t, stream.Closed())

	// Closing twice is harmless.
	require.NoError(t, stream.Close())
}
