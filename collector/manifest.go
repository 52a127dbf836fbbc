package collector

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/getthis/config"
	"www.velocidex.com/golang/getthis/csv"
)

func hexDigest(digest []byte) string {
	if len(digest) == 0 {
		return ""
	}
	return hex.EncodeToString(digest)
}

// writeSampleRows appends one manifest row per hard link of the
// sample. Rows are written after the payloads so the sizes and
// digests are final.
func (self *Collector) writeSampleRows(
	writer *csv.Writer, sample *SampleRef) error {

	sample.finalizeSize()

	match := sample.Match
	attr := sample.Attribute()

	var md5_digest, sha1_digest, sha256_digest string
	if sample.HashStream != nil {
		md5_digest = hexDigest(sample.HashStream.MD5())
		sha1_digest = hexDigest(sample.HashStream.SHA1())
		sha256_digest = hexDigest(sample.HashStream.SHA256())
	}

	var ssdeep_digest, tlsh_digest string
	if sample.FuzzyHashStream != nil {
		ssdeep_digest = sample.FuzzyHashStream.SSDeep()
		tlsh_digest = sample.FuzzyHashStream.TLSH()
	}

	sample_name := sample.SampleName
	if sample.OffLimits {
		sample_name = ""
	}

	// The content column only distinguishes transformed content;
	// raw extraction is left blank.
	content_type := ""
	switch sample.Content.Type {
	case config.ContentData:
		content_type = "data"
	case config.ContentStrings:
		content_type = "strings"
	}

	for _, name := range match.MatchingNames {
		row := ordereddict.NewDict().
			Set("ComputerName", self.computer_name).
			Set("VolumeSerialNumber", fmt.Sprintf("%d",
				match.VolumeReader.VolumeSerialNumber())).
			Set("ParentFRN", fmt.Sprintf("%d",
				name.FileName.ParentDirectory.Value())).
			Set("FRN", fmt.Sprintf("%d", match.FRN)).
			Set("FullPath", name.FullPathName).
			Set("SampleName", sample_name).
			Set("SampleSize", fmt.Sprintf("%d", sample.SampleSize)).
			Set("MD5", md5_digest).
			Set("SHA1", sha1_digest).
			Set("Description", match.Term.Description()).
			Set("ContentType", content_type).
			Set("CollectionDate", fmt.Sprintf("%d", sample.CollectionDate))

		if match.StandardInformation != nil {
			row.Set("CreationDate", fmt.Sprintf("%d",
				match.StandardInformation.CreationTime)).
				Set("LastModificationDate", fmt.Sprintf("%d",
					match.StandardInformation.LastModificationTime)).
				Set("LastAccessDate", fmt.Sprintf("%d",
					match.StandardInformation.LastAccessTime)).
				Set("LastAttrChangeDate", fmt.Sprintf("%d",
					match.StandardInformation.LastChangeTime))
		} else {
			row.Set("CreationDate", "").
				Set("LastModificationDate", "").
				Set("LastAccessDate", "").
				Set("LastAttrChangeDate", "")
		}

		row.Set("FileNameCreationDate", fmt.Sprintf("%d",
			name.FileName.Info.CreationTime)).
			Set("FileNameLastModificationDate", fmt.Sprintf("%d",
				name.FileName.Info.LastModificationTime)).
			Set("FileNameLastAccessDate", fmt.Sprintf("%d",
				name.FileName.Info.LastAccessTime)).
			Set("FileNameLastAttrChangeDate", fmt.Sprintf("%d",
				name.FileName.Info.LastChangeTime)).
			Set("AttributeType", attr.Type.String()).
			Set("AttributeName", attr.Name).
			Set("InstanceID", fmt.Sprintf("%d", attr.InstanceID)).
			Set("SnapshotID", sample.SnapshotID.String()).
			Set("SHA256", sha256_digest).
			Set("SSDeep", ssdeep_digest).
			Set("TLSH", tlsh_digest).
			Set("YaraRules", strings.Join(attr.YaraRules, "; "))

		err := writer.Write(row)
		if err != nil {
			return err
		}
	}

	return nil
}
