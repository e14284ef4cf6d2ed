package service

import "errors"

var (
	// ErrFetchEvents is returned when the calendar backend fails.
	ErrFetchEvents = errors.New("fetch calendar events")
	// ErrConferenceDomains is returned when a conference domain pattern is invalid.
	ErrConferenceDomains = errors.New("invalid conference domains")
	// ErrCacheDisabled is returned by RefreshCache when no cache path is set.
	ErrCacheDisabled = errors.New("event cache disabled")
	// ErrRefreshCache is returned when the cache could not be refreshed.
	ErrRefreshCache = errors.New("refresh event cache")
)
