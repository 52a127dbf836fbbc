// The finder contract. The collector consumes matches produced by a
// filesystem finder (MFT walker, YARA scanner, location enumerator);
// the finder itself lives outside this module.
package finder

import (
	"context"

	"github.com/google/uuid"
	"www.velocidex.com/golang/getthis/ntfs"
	"www.velocidex.com/golang/getthis/streams"
)

// Term is one filesystem query inside a sample spec. The collector
// only needs identity and a human description for the manifest.
type Term interface {
	Description() string
}

// VolumeReader identifies the volume a match came from. The collector
// treats readers as shared read only handles.
type VolumeReader interface {
	VolumeSerialNumber() uint64
}

// SnapshotVolumeReader is implemented by readers backed by a volume
// shadow copy.
type SnapshotVolumeReader interface {
	VolumeReader

	SnapshotID() uuid.UUID
}

// MatchingName is one hard link under which the matched record is
// reachable.
type MatchingName struct {
	FullPathName string
	FileName     *ntfs.FileNameAttribute
}

// MatchingAttribute is one NTFS attribute of the matched record which
// satisfied the term, usually a $DATA stream. DataStream yields the
// parsed attribute content, RawStream the attribute's bytes as stored
// on disk.
type MatchingAttribute struct {
	Type       ntfs.AttrType
	Name       string
	InstanceID uint32

	DataStream streams.ByteStream
	RawStream  streams.ByteStream

	// Rules that fired when the term included a YARA scan.
	YaraRules []string
}

// Match is one filesystem object reported by the finder.
type Match struct {
	Term         Term
	VolumeReader VolumeReader
	FRN          uint64

	StandardInformation *ntfs.Timestamps

	MatchingNames      []MatchingName
	MatchingAttributes []MatchingAttribute
}

// FullName renders the display path for one name/attribute pair the
// way sinks and logs present it: named streams are appended with a
// colon.
func (self *Match) FullName(name MatchingName, attr MatchingAttribute) string {
	if attr.Name != "" {
		return name.FullPathName + ":" + attr.Name
	}
	return name.FullPathName
}

// Finder delivers matches through a callback on a single goroutine.
// Returning false from the callback asks the finder to stop.
type Finder interface {
	Find(ctx context.Context, callback func(match *Match) bool) error
}
