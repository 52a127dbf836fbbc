package collector

import (
	"github.com/pkg/errors"
	"www.velocidex.com/golang/getthis/config"
	"www.velocidex.com/golang/getthis/streams"
)

// configureSampleStreams builds the sample's read pipeline: content
// source, then the crypto hash tap, then the fuzzy hash tap, with a
// counting head on the outside. On failure the sample stays
// registered with a nil CopyStream and the sink treats it as off
// limits.
func (self *Collector) configureSampleStreams(sample *SampleRef) error {
	if sample.SampleName == "" {
		return errors.New("sample has no name")
	}

	attr := sample.Attribute()

	var source streams.ByteStream

	switch sample.Content.Type {
	case config.ContentData:
		source = attr.DataStream

	case config.ContentRaw:
		source = attr.RawStream

	case config.ContentStrings:
		if attr.DataStream == nil {
			return errors.New("attribute data stream is not open")
		}

		min_chars := sample.Content.MinChars
		max_chars := sample.Content.MaxChars
		if min_chars == 0 && max_chars == 0 {
			min_chars = self.config.Content.MinChars
			max_chars = self.config.Content.MaxChars
		}

		source = streams.NewStringsStream(attr.DataStream, min_chars, max_chars)
	}

	if source == nil {
		return errors.New("attribute stream is not open")
	}

	var upstream streams.ByteStream = source

	if self.crypto_algs != streams.CryptoUndefined {
		sample.HashStream = streams.NewCryptoHashStream(upstream, self.crypto_algs)
		upstream = sample.HashStream
	}

	if self.fuzzy_algs != streams.FuzzyUndefined {
		sample.FuzzyHashStream = streams.NewFuzzyHashStream(upstream, self.fuzzy_algs)
		upstream = sample.FuzzyHashStream
	}

	sample.CopyStream = streams.NewCountingStream(upstream)
	sample.SampleSize = sample.CopyStream.Size()
	return nil
}
