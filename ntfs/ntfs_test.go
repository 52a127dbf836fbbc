package ntfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileReferenceHex(t *testing.T) {
	ref := FileReference{
		SequenceNumber:        0x0001,
		SegmentNumberHighPart: 0x0000,
		SegmentNumberLowPart:  0x000A,
	}
	assert.Equal(t, "0001000000000000000A", ref.Hex())

	ref = FileReference{
		SequenceNumber:        0xBEEF,
		SegmentNumberHighPart: 0x1234,
		SegmentNumberLowPart:  0xDEADBEEF,
	}
	assert.Equal(t, "BEEF00001234DEADBEEF", ref.Hex())
}

func TestFileReferenceValue(t *testing.T) {
	ref := FileReference{
		SequenceNumber:       0x0001,
		SegmentNumberLowPart: 0x000A,
	}
	assert.Equal(t, uint64(0x000100000000000A), ref.Value())
}

func TestAttrTypeNames(t *testing.T) {
	assert.Equal(t, "$DATA", ATTR_DATA.String())
	assert.Equal(t, "$INDEX_ROOT", ATTR_INDEX_ROOT.String())
	assert.Equal(t, "$UNUSED", AttrType(0xFFFF).String())
}

func TestFiletimeRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)
	ft := FiletimeFromTime(now)
	assert.Equal(t, now, ft.Time())

	// The zero time maps to the zero FILETIME and back.
	assert.Equal(t, Filetime(0), FiletimeFromTime(time.Time{}))
	assert.True(t, Filetime(0).Time().IsZero())
}
