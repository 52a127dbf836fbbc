// GetThis' flavour of Comma Separated Value output.
//
// The manifest is appended to while the archive is still being
// written, so the writer emits the header lazily from the first row's
// columns and flushes explicitly before the stream is spliced into
// the archive.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Velocidex/ordereddict"
)

// Options mirror the configurable CSV knobs: field separator and line
// terminator.
type Options struct {
	Separator rune
	UseCRLF   bool
}

type Writer struct {
	w               *csv.Writer
	columns         []string
	headers_written bool
}

func NewWriter(fd io.Writer, options *Options) *Writer {
	w := csv.NewWriter(fd)
	if options != nil {
		if options.Separator != 0 {
			w.Comma = options.Separator
		}
		w.UseCRLF = options.UseCRLF
	}

	return &Writer{w: w}
}

// Write appends one row. The first row fixes the column set; later
// rows are emitted in that column order with missing cells empty.
func (self *Writer) Write(row *ordereddict.Dict) error {
	if !self.headers_written {
		self.columns = row.Keys()
		err := self.w.Write(self.columns)
		if err != nil {
			return err
		}
		self.headers_written = true
	}

	record := make([]string, 0, len(self.columns))
	for _, column := range self.columns {
		value, pres := row.Get(column)
		if !pres || value == nil {
			record = append(record, "")
			continue
		}
		record = append(record, toString(value))
	}

	return self.w.Write(record)
}

func toString(value interface{}) string {
	switch t := value.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (self *Writer) Flush() error {
	self.w.Flush()
	return self.w.Error()
}
