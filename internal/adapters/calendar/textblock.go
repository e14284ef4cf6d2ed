package calendar

import (
	"context"
	"os"
	"strings"

	model "github.com/okian/ocu/internal/domain/model"
	"github.com/okian/ocu/pkg/logger"
	"github.com/okian/ocu/pkg/metrics"
)

// TextBlockSourceName identifies the icalBuddy backend.
const TextBlockSourceName = "icalbuddy"

// DefaultIcalBuddyPaths lists where icalBuddy is looked for, in order.
var DefaultIcalBuddyPaths = []string{ //nolint:gochecknoglobals // fixed install locations
	"/opt/homebrew/bin/icalBuddy",
	"/usr/local/bin/icalBuddy",
}

// eventProps fixes which properties icalBuddy prints and in what order; the
// parser depends on it.
var eventProps = strings.Join([]string{"title", "datetime", "location", "url", "notes"}, ",") //nolint:gochecknoglobals // fixed

// TextBlockSource runs icalBuddy and parses its bulleted output.
type TextBlockSource struct {
	runner    CommandRunner
	parser    *Parser
	paths     []string
	stat      func(string) (os.FileInfo, error)
	calendars []string
	logger    logger.Logger
}

// NewTextBlockSource returns the icalBuddy backend.
func NewTextBlockSource(opts ...Option) *TextBlockSource {
	o := applyOptions(opts)
	return &TextBlockSource{
		runner:    o.runner,
		parser:    o.parser,
		paths:     o.binaryPaths,
		stat:      o.stat,
		calendars: o.calendars,
		logger:    o.logger.Named(TextBlockSourceName),
	}
}

// Name implements Source.
func (s *TextBlockSource) Name() string { return TextBlockSourceName }

// Available implements Source.
func (s *TextBlockSource) Available() bool { return s.BinaryPath() != "" }

// BinaryPath returns the first installed icalBuddy, or "".
func (s *TextBlockSource) BinaryPath() string {
	for _, p := range s.paths {
		if fi, err := s.stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// Args returns the icalBuddy command line, excluding the binary.
func (s *TextBlockSource) Args() []string {
	var args []string
	if len(s.calendars) > 0 {
		args = append(args, "--includeCals", strings.Join(s.calendars, ","))
	}
	return append(args,
		"--dateFormat", "%Y-%m-%d",
		"--noRelativeDates",
		"--timeFormat", "%H:%M",
		"--noCalendarNames",
		"--includeEventProps", eventProps,
		"--propertyOrder", eventProps,
		"eventsToday+0",
	)
}

// ListRawEvents implements Source. Blocks that do not parse into a record
// with a title and start date are dropped.
func (s *TextBlockSource) ListRawEvents(ctx context.Context) ([]model.RawRecord, error) {
	bin := s.BinaryPath()
	if bin == "" {
		metrics.RecordSourceError(TextBlockSourceName)
		return nil, ErrBackendUnavailable
	}

	out, err := s.runner.Run(ctx, bin, s.Args()...)
	if err != nil {
		metrics.RecordSourceError(TextBlockSourceName)
		return nil, err
	}

	blocks := SplitBlocks(string(out))
	records := make([]model.RawRecord, 0, len(blocks))
	for i, block := range blocks {
		rec := s.parser.Parse(block)
		if !rec.Valid() {
			metrics.RecordBlockUnparsed()
			s.logger.Debug(ctx, "discarding unparsed block", logger.Int("index", i))
			continue
		}
		records = append(records, rec)
	}
	metrics.RecordRecordsFetched(TextBlockSourceName, len(records))
	s.logger.Debug(ctx, "fetched events",
		logger.Int("blocks", len(blocks)),
		logger.Int("count", len(records)),
	)
	return records, nil
}
