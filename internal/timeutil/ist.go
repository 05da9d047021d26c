package timeutil

import (
	"strings"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30)
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
}

// Clock returns the current instant. Services take one so tests can pin the
// date stamped on records.
type Clock func() time.Time

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts any time to IST
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// StartOfDay returns the start of day (00:00:00) in IST for the given time
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// Layouts for the record stamps. Dates follow the en-IN short form
// (16/10/2026), times a two digit 12-hour clock with a lower-case marker.
const (
	DisplayDateLayout = "2/1/2006"
	ReportStampLayout = "02/01/2006 03:04 PM"
	FileStampLayout   = "20060102_150405"
)

// DisplayDate renders the date stored on intake and certificate records.
func DisplayDate(t time.Time) string {
	return t.In(IST).Format(DisplayDateLayout)
}

// DisplayTime renders the time stored on intake records.
func DisplayTime(t time.Time) string {
	return strings.ToLower(t.In(IST).Format("03:04 PM"))
}

// FileStamp renders t for use in generated file names.
func FileStamp(t time.Time) string {
	return t.In(IST).Format(FileStampLayout)
}
