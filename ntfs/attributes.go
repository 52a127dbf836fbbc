package ntfs

// AttrType is the NTFS attribute type code.
type AttrType uint32

const (
	ATTR_STANDARD_INFORMATION AttrType = 0x10
	ATTR_ATTRIBUTE_LIST       AttrType = 0x20
	ATTR_FILE_NAME            AttrType = 0x30
	ATTR_OBJECT_ID            AttrType = 0x40
	ATTR_SECURITY_DESCRIPTOR  AttrType = 0x50
	ATTR_VOLUME_NAME          AttrType = 0x60
	ATTR_VOLUME_INFORMATION   AttrType = 0x70
	ATTR_DATA                 AttrType = 0x80
	ATTR_INDEX_ROOT           AttrType = 0x90
	ATTR_INDEX_ALLOCATION     AttrType = 0xA0
	ATTR_BITMAP               AttrType = 0xB0
	ATTR_REPARSE_POINT        AttrType = 0xC0
	ATTR_EA_INFORMATION       AttrType = 0xD0
	ATTR_EA                   AttrType = 0xE0
	ATTR_LOGGED_UTILITY       AttrType = 0x100
)

var attrTypeNames = map[AttrType]string{
	ATTR_STANDARD_INFORMATION: "$STANDARD_INFORMATION",
	ATTR_ATTRIBUTE_LIST:       "$ATTRIBUTE_LIST",
	ATTR_FILE_NAME:            "$FILE_NAME",
	ATTR_OBJECT_ID:            "$OBJECT_ID",
	ATTR_SECURITY_DESCRIPTOR:  "$SECURITY_DESCRIPTOR",
	ATTR_VOLUME_NAME:          "$VOLUME_NAME",
	ATTR_VOLUME_INFORMATION:   "$VOLUME_INFORMATION",
	ATTR_DATA:                 "$DATA",
	ATTR_INDEX_ROOT:           "$INDEX_ROOT",
	ATTR_INDEX_ALLOCATION:     "$INDEX_ALLOCATION",
	ATTR_BITMAP:               "$BITMAP",
	ATTR_REPARSE_POINT:        "$REPARSE_POINT",
	ATTR_EA_INFORMATION:       "$EA_INFORMATION",
	ATTR_EA:                   "$EA",
	ATTR_LOGGED_UTILITY:       "$LOGGED_UTILITY_STREAM",
}

func (self AttrType) String() string {
	name, pres := attrTypeNames[self]
	if !pres {
		return "$UNUSED"
	}
	return name
}

// Timestamps carries the four NTFS times as FILETIME values. Both
// $STANDARD_INFORMATION and $FILE_NAME hold a set.
type Timestamps struct {
	CreationTime         Filetime
	LastModificationTime Filetime
	LastAccessTime       Filetime
	LastChangeTime       Filetime
}

// FileNameAttribute is the subset of $FILE_NAME the collector needs:
// the link's name, its parent directory reference and its timestamps.
type FileNameAttribute struct {
	Name            string
	ParentDirectory FileReference
	Info            Timestamps
}
