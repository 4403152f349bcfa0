package visit

import (
	"regexp"
	"time"
)

// Record is one fully parsed visit report.
type Record struct {
	SourcePath string
	Company    string // normalized lowercase company name
	VisitDate  time.Time
	Text       string // cleaned full document text
	Notes      string // the "Notlar" block
	Fields     Fields
}

var filenameDateRe = regexp.MustCompile(`_(\d{8})\d{6}_`)

// VisitDateFromFilename reads the visit date out of an export filename
// carrying a _YYYYMMDDhhmmss_ timestamp segment.
func VisitDateFromFilename(name string) (time.Time, bool) {
	m := filenameDateRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NewRecord assembles a Record from cleaned document text.
func NewRecord(path, text string) *Record {
	notes := ExtractNotesBlock(text)
	rec := &Record{
		SourcePath: path,
		Company:    ExtractCompanyName(text),
		Text:       text,
		Notes:      notes,
		Fields:     ParseNotes(notes),
	}
	if d, ok := VisitDateFromFilename(path); ok {
		rec.VisitDate = d
	}
	return rec
}
