package ntfs

import "fmt"

// FileReference identifies an MFT record: segment number plus the
// record's reuse sequence number.
type FileReference struct {
	SequenceNumber        uint16
	SegmentNumberHighPart uint32
	SegmentNumberLowPart  uint32
}

// Value packs the reference into the 64 bit form the $MFT stores.
func (self FileReference) Value() uint64 {
	return uint64(self.SegmentNumberLowPart) |
		uint64(self.SegmentNumberHighPart)<<32 |
		uint64(self.SequenceNumber)<<48
}

// Hex renders the reference the way sample names embed it: sequence
// number then high then low segment parts, fixed width uppercase hex.
func (self FileReference) Hex() string {
	return fmt.Sprintf("%04X%08X%08X",
		self.SequenceNumber,
		self.SegmentNumberHighPart,
		self.SegmentNumberLowPart)
}
