package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingPreference = errors.New("missing preference")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrUnknownPreference = errors.New("unknown preference")
	ErrLoadConfig        = errors.New("load config failed")
)

// MissingPreferenceError reports a required preference with no backing value.
type MissingPreferenceError struct {
	Name string
}

func (e *MissingPreferenceError) Error() string {
	return fmt.Sprintf("missing preference %q", e.Name)
}

// Is matches ErrMissingPreference.
func (e *MissingPreferenceError) Is(target error) bool {
	return target == ErrMissingPreference
}

// InvalidPreferenceError reports a value that its converter rejected.
type InvalidPreferenceError struct {
	Name  string
	Value string
	Err   error
}

func (e *InvalidPreferenceError) Error() string {
	return fmt.Sprintf("invalid preference %q=%q: %v", e.Name, e.Value, e.Err)
}

// Is matches ErrInvalidPreference.
func (e *InvalidPreferenceError) Is(target error) bool {
	return target == ErrInvalidPreference
}

func (e *InvalidPreferenceError) Unwrap() error { return e.Err }
