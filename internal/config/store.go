package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Lookuper is the key/value storage preferences are read from.
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// LookupFunc adapts a plain function to Lookuper.
type LookupFunc func(name string) (string, bool)

// Lookup calls f.
func (f LookupFunc) Lookup(name string) (string, bool) { return f(name) }

// EnvLookup reads the process environment on every call.
var EnvLookup = LookupFunc(os.LookupEnv)

// MapLookup serves preferences from a fixed map, mostly for tests.
type MapLookup map[string]string

// Lookup implements Lookuper.
func (m MapLookup) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

type converter func(raw string) (any, error)

var (
	listSeparator = regexp.MustCompile(`[,\n]`)
	truthy        = map[string]bool{"1": true, "y": true, "yes": true, "true": true, "t": true}
)

// converters is the fixed name -> type table.
var converters = map[string]converter{
	NameConferenceDomains:      toList,
	NameCalendarNames:          toList,
	NameEventTimeThresholdMins: toInt,
	NameUseDirectZoom:          toBool,
	NameUseDirectMSTeams:       toBool,
	NameUseDirectGMeet:         toBool,
	NameGMeetAppName:           toString,
	NameUseIcalBuddy:           toBool,
	NameTimeSystem:             toTimeSystem,
	NameLogLevel:               toString,
	NameEventCachePath:         toString,
	NameMetricsTextfile:        toString,
	NameCommandTimeoutSecs:     toInt,
}

func toString(raw string) (any, error) { return raw, nil }

func toInt(raw string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.New("not an integer")
	}
	return n, nil
}

func toBool(raw string) (any, error) {
	return truthy[strings.ToLower(strings.TrimSpace(raw))], nil
}

func toList(raw string) (any, error) {
	parts := listSeparator.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		// Trailing separators leave empty elements behind.
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func toTimeSystem(raw string) (any, error) {
	v := strings.TrimSpace(raw)
	switch v {
	case TimeSystem12Hour, TimeSystem24Hour:
		return v, nil
	default:
		return nil, fmt.Errorf("want %q or %q", TimeSystem12Hour, TimeSystem24Hour)
	}
}

// Store is a typed accessor over named preference values. Nothing is cached:
// every call goes back to the Lookuper.
type Store struct {
	src Lookuper
}

// NewStore returns a Store reading from src.
func NewStore(src Lookuper) *Store {
	if src == nil {
		src = EnvLookup
	}
	return &Store{src: src}
}

// Get resolves name through its converter. It returns a
// *MissingPreferenceError when no value is present.
func (s *Store) Get(name string) (any, error) {
	conv, ok := converters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreference, name)
	}
	raw, ok := s.src.Lookup(name)
	if !ok {
		return nil, &MissingPreferenceError{Name: name}
	}
	v, err := conv(raw)
	if err != nil {
		return nil, &InvalidPreferenceError{Name: name, Value: raw, Err: err}
	}
	return v, nil
}

// String returns a string-valued preference.
func (s *Store) String(name string) (string, error) {
	v, err := s.Get(name)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", typeMismatch(name, "string")
	}
	return str, nil
}

// Int returns an int-valued preference.
func (s *Store) Int(name string) (int, error) {
	v, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, typeMismatch(name, "int")
	}
	return n, nil
}

// Bool returns a bool-valued preference.
func (s *Store) Bool(name string) (bool, error) {
	v, err := s.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeMismatch(name, "bool")
	}
	return b, nil
}

// List returns a list-valued preference.
func (s *Store) List(name string) ([]string, error) {
	v, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]string)
	if !ok {
		return nil, typeMismatch(name, "list")
	}
	return l, nil
}

// StringOr returns def when name is missing. Malformed values still error.
func (s *Store) StringOr(name, def string) (string, error) {
	v, err := s.String(name)
	if errors.Is(err, ErrMissingPreference) {
		return def, nil
	}
	return v, err
}

// BoolOr returns def when name is missing.
func (s *Store) BoolOr(name string, def bool) (bool, error) {
	v, err := s.Bool(name)
	if errors.Is(err, ErrMissingPreference) {
		return def, nil
	}
	return v, err
}

// IntOr returns def when name is missing.
func (s *Store) IntOr(name string, def int) (int, error) {
	v, err := s.Int(name)
	if errors.Is(err, ErrMissingPreference) {
		return def, nil
	}
	return v, err
}

// ListOr returns def when name is missing.
func (s *Store) ListOr(name string, def []string) ([]string, error) {
	v, err := s.List(name)
	if errors.Is(err, ErrMissingPreference) {
		return def, nil
	}
	return v, err
}

func typeMismatch(name, want string) error {
	return &InvalidPreferenceError{Name: name, Err: fmt.Errorf("not a %s preference", want)}
}
