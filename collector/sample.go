package collector

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"www.velocidex.com/golang/getthis/config"
	"www.velocidex.com/golang/getthis/finder"
	"www.velocidex.com/golang/getthis/ntfs"
	"www.velocidex.com/golang/getthis/streams"
)

// sampleKey is the sample's filesystem identity. Two matches that
// alias the same data stream under different names share one key.
type sampleKey struct {
	VolumeSerial uint64
	FRN          uint64
	InstanceID   uint32
}

// SampleRef is one registered sample: its identity, the match it came
// from, its output name and its owned pipeline. The pipeline head
// (CopyStream) is consumed exactly once by the sink; the hash taps
// stay readable until the registry is dropped.
type SampleRef struct {
	VolumeSerial uint64
	FRN          uint64
	InstanceID   uint32

	// All zeros when the volume reader is not snapshot backed.
	SnapshotID uuid.UUID

	Match          *finder.Match
	AttributeIndex int

	Content        config.ContentSpec
	CollectionDate ntfs.Filetime

	SampleName string
	OffLimits  bool
	SampleSize int64

	CopyStream      *streams.CountingStream
	HashStream      *streams.CryptoHashStream
	FuzzyHashStream *streams.FuzzyHashStream
}

func (self *SampleRef) key() sampleKey {
	return sampleKey{
		VolumeSerial: self.VolumeSerial,
		FRN:          self.FRN,
		InstanceID:   self.InstanceID,
	}
}

// Attribute is the matching attribute this sample collects.
func (self *SampleRef) Attribute() finder.MatchingAttribute {
	return self.Match.MatchingAttributes[self.AttributeIndex]
}

// finalizeSize records the post transform byte count once the
// pipeline was drained. Samples that were never consumed keep the
// expected source size.
func (self *SampleRef) finalizeSize() {
	if self.CopyStream != nil && self.CopyStream.Closed() {
		self.SampleSize = self.CopyStream.Count()
	}
}

// SampleSet is the deduplicating sample registry. Iteration follows
// insertion order so a run over identical input is deterministic.
type SampleSet struct {
	samples map[sampleKey]*SampleRef
	order   []*SampleRef
}

func NewSampleSet() *SampleSet {
	return &SampleSet{
		samples: make(map[sampleKey]*SampleRef),
	}
}

// FindOrInsert registers the sample unless its identity is already
// present. The existing entry is never disturbed.
func (self *SampleSet) FindOrInsert(sample *SampleRef) (inserted bool) {
	_, pres := self.samples[sample.key()]
	if pres {
		return false
	}

	self.samples[sample.key()] = sample
	self.order = append(self.order, sample)
	return true
}

func (self *SampleSet) Samples() []*SampleRef {
	return self.order
}

func (self *SampleSet) Len() int {
	return len(self.order)
}

// CloseAll releases any pipeline that was never consumed.
func (self *SampleSet) CloseAll() {
	for _, sample := range self.order {
		if sample.CopyStream != nil {
			sample.CopyStream.Close()
		}
	}
}

// NameRegistry allocates unique output names within the archive
// namespace.
type NameRegistry struct {
	names map[string]bool
}

func NewNameRegistry() *NameRegistry {
	return &NameRegistry{names: make(map[string]bool)}
}

// forbidden characters are replaced with '_' in sample names.
func forbiddenNameRune(r rune) bool {
	switch r {
	case ':', '#', '<', '>', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return unicode.IsSpace(r)
}

func sanitizeSampleName(name string) string {
	return strings.Map(func(r rune) rune {
		if forbiddenNameRune(r) {
			return '_'
		}
		return r
	}, name)
}

// CreateSampleFileName synthesizes an output name from the hard
// link's $FILE_NAME attribute, the data stream name (possibly empty),
// a deduplication index and the content tag:
//
//	<parent ref hex>__<name>[_<stream>][_<idx>]_<tag>
//
// The parent reference is sequence number, segment high and segment
// low parts in fixed width uppercase hex.
func CreateSampleFileName(
	content config.ContentSpec,
	file_name *ntfs.FileNameAttribute,
	data_name string, idx uint32) string {

	builder := strings.Builder{}
	builder.WriteString(file_name.ParentDirectory.Hex())
	builder.WriteString("__")
	builder.WriteString(file_name.Name)

	if data_name != "" {
		builder.WriteString("_")
		builder.WriteString(data_name)
	}

	if idx != 0 {
		fmt.Fprintf(&builder, "_%d", idx)
	}

	builder.WriteString("_")
	builder.WriteString(content.Type.String())

	return sanitizeSampleName(builder.String())
}

// Allocate returns a name not yet present in the registry, prefixing
// it with the spec name when one is set. The index is bumped until
// the candidate is free.
func (self *NameRegistry) Allocate(
	spec_name string,
	content config.ContentSpec,
	file_name *ntfs.FileNameAttribute,
	data_name string) string {

	var candidate string
	for idx := uint32(0); ; idx++ {
		candidate = CreateSampleFileName(content, file_name, data_name, idx)
		if spec_name != "" {
			candidate = spec_name + "/" + candidate
		}

		if !self.names[candidate] {
			break
		}
	}

	self.names[candidate] = true
	return candidate
}

func (self *NameRegistry) Contains(name string) bool {
	return self.names[name]
}
