package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	model "github.com/okian/ocu/internal/domain/model"
	"github.com/okian/ocu/pkg/logger"
	"github.com/okian/ocu/pkg/metrics"
)

// StructuredSourceName identifies the osascript backend.
const StructuredSourceName = "applescript"

const scriptName = "get-calendar-events.applescript"

func defaultScriptPath() string {
	exe, err := os.Executable()
	if err != nil {
		return scriptName
	}
	return filepath.Join(filepath.Dir(exe), scriptName)
}

// StructuredSource runs an AppleScript that prints today's events as a JSON
// array of string maps.
type StructuredSource struct {
	runner     CommandRunner
	scriptPath string
	calendars  []string
	logger     logger.Logger
}

// NewStructuredSource returns the structured backend.
func NewStructuredSource(opts ...Option) *StructuredSource {
	o := applyOptions(opts)
	return &StructuredSource{
		runner:     o.runner,
		scriptPath: o.scriptPath,
		calendars:  o.calendars,
		logger:     o.logger.Named(StructuredSourceName),
	}
}

// Name implements Source.
func (s *StructuredSource) Name() string { return StructuredSourceName }

// Available implements Source. osascript ships with the OS.
func (s *StructuredSource) Available() bool { return true }

// ListRawEvents implements Source. Records are passed through as decoded.
func (s *StructuredSource) ListRawEvents(ctx context.Context) ([]model.RawRecord, error) {
	args := append([]string{s.scriptPath}, s.calendars...)
	out, err := s.runner.Run(ctx, "osascript", args...)
	if err != nil {
		metrics.RecordSourceError(StructuredSourceName)
		return nil, err
	}

	var decoded []map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		metrics.RecordSourceError(StructuredSourceName)
		return nil, fmt.Errorf("%w: %w", ErrDecodeOutput, err)
	}

	records := make([]model.RawRecord, 0, len(decoded))
	for _, d := range decoded {
		records = append(records, toRecord(d))
	}
	metrics.RecordRecordsFetched(StructuredSourceName, len(records))
	s.logger.Debug(ctx, "fetched events", logger.Int("count", len(records)))
	return records, nil
}

// toRecord stringifies scalar JSON values; nulls are dropped.
func toRecord(d map[string]any) model.RawRecord {
	r := make(model.RawRecord, len(d))
	for k, v := range d {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			r[k] = val
		case bool:
			r[k] = strconv.FormatBool(val)
		case float64:
			r[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			r[k] = fmt.Sprint(val)
		}
	}
	return r
}
