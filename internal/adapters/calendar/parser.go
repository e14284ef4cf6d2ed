package calendar

import (
	"regexp"
	"time"

	model "github.com/okian/ocu/internal/domain/model"
)

// Forced times for all-day events reported without a clock time.
const (
	allDayStart = "00:00"
	allDayEnd   = "23:59"
)

const (
	indent   = ` {4}`
	datePatt = `(\d{4}-\d{2}-\d{2})`
	timePatt = `(\d{2}:\d{2})`
	lineEnd  = `(?:\r?\n|$)`
)

// DateRange is the date/time information read from one event block.
type DateRange struct {
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	AllDay    bool
	// Rule names the grammar rule that matched.
	Rule string
}

type dateRule struct {
	name  string
	re    *regexp.Regexp
	apply func(m []string, today string) DateRange
}

func dateLine(body string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\n)` + indent + body + lineEnd)
}

// dateRules are tried in order; the first match wins.
var dateRules = []dateRule{
	{
		name: "multi_day_timed",
		re:   dateLine(datePatt + ` at ` + timePatt + ` - ` + datePatt + ` at ` + timePatt),
		apply: func(m []string, _ string) DateRange {
			return DateRange{StartDate: m[1], StartTime: m[2], EndDate: m[3], EndTime: m[4]}
		},
	},
	{
		name: "multi_day_all_day",
		re:   dateLine(datePatt + ` - ` + datePatt),
		apply: func(m []string, _ string) DateRange {
			return DateRange{StartDate: m[1], StartTime: allDayStart, EndDate: m[2], EndTime: allDayEnd, AllDay: true}
		},
	},
	{
		name: "single_day_all_day",
		re:   dateLine(datePatt),
		apply: func(m []string, _ string) DateRange {
			return DateRange{StartDate: m[1], StartTime: allDayStart, EndDate: m[1], EndTime: allDayEnd, AllDay: true}
		},
	},
	{
		name: "single_day_timed",
		re:   dateLine(datePatt + ` at ` + timePatt + ` - ` + timePatt),
		apply: func(m []string, _ string) DateRange {
			return DateRange{StartDate: m[1], StartTime: m[2], EndDate: m[1], EndTime: m[3]}
		},
	},
	{
		name: "bare_time",
		re:   dateLine(timePatt),
		apply: func(m []string, today string) DateRange {
			return DateRange{StartDate: today, StartTime: m[1], EndDate: today, EndTime: m[1]}
		},
	},
}

var (
	titlePattern    = regexp.MustCompile(`^(.*?)\r?\n`)
	locationPattern = regexp.MustCompile(`\n` + indent + `location: (.*?)` + lineEnd)
	urlLinePattern  = regexp.MustCompile(`\n` + indent + `url: (.*?)` + lineEnd)
	notesPattern    = regexp.MustCompile(`\n` + indent + `notes: ((?s:.*))$`)
	blockSeparator  = regexp.MustCompile(`(?:^|\n)• `)
)

// ParserOption applies a configuration option to the Parser.
type ParserOption func(*Parser)

// WithClock sets the clock used to date events that carry only a time.
func WithClock(now func() time.Time) ParserOption {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// Parser converts icalBuddy event blocks into raw records.
type Parser struct {
	now func() time.Time
}

// NewParser returns a Parser using the system clock unless overridden.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SplitBlocks splits icalBuddy output into one block per event, dropping the
// empty fragment before the first bullet.
func SplitBlocks(output string) []string {
	parts := blockSeparator.Split(output, -1)
	if len(parts) == 0 {
		return nil
	}
	return parts[1:]
}

// ParseDates applies the date grammar to block. ok is false when no rule
// matches.
func (p *Parser) ParseDates(block string) (DateRange, bool) {
	for _, r := range dateRules {
		if m := r.re.FindStringSubmatch(block); m != nil {
			dr := r.apply(m, p.now().Format(model.DateLayout))
			dr.Rule = r.name
			return dr, true
		}
	}
	return DateRange{}, false
}

// Parse converts one block into a raw record. A block whose dates cannot be
// read yields a record with empty title and dates, which fails
// model.RawRecord.Valid; Parse never returns an error.
func (p *Parser) Parse(block string) model.RawRecord {
	dr, ok := p.ParseDates(block)
	if !ok {
		return model.RawRecord{
			model.FieldTitle:     "",
			model.FieldStartDate: "",
			model.FieldEndDate:   "",
		}
	}

	isAllDay := "false"
	if dr.AllDay {
		isAllDay = "true"
	}
	return model.RawRecord{
		model.FieldTitle:     firstGroup(titlePattern, block),
		model.FieldStartDate: dr.StartDate + "T" + dr.StartTime,
		model.FieldEndDate:   dr.EndDate + "T" + dr.EndTime,
		model.FieldIsAllDay:  isAllDay,
		model.FieldLocation:  firstGroup(locationPattern, block),
		model.FieldURL:       firstGroup(urlLinePattern, block),
		model.FieldNotes:     firstGroup(notesPattern, block),
	}
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
