package ntfs

import "time"

// Filetime is a Windows FILETIME: 100ns intervals since 1601-01-01.
type Filetime uint64

// Offset between the FILETIME epoch and the Unix epoch in 100ns units.
const filetimeEpochDelta = 116444736000000000

func FiletimeFromTime(t time.Time) Filetime {
	if t.IsZero() {
		return 0
	}
	return Filetime(t.UnixNano()/100 + filetimeEpochDelta)
}

func (self Filetime) Time() time.Time {
	if self == 0 {
		return time.Time{}
	}
	return time.Unix(0, (int64(self)-filetimeEpochDelta)*100).UTC()
}
