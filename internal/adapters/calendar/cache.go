package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	model "github.com/okian/ocu/internal/domain/model"
	"github.com/okian/ocu/pkg/logger"
	"github.com/okian/ocu/pkg/metrics"
)

// Cache lookup results reported to metrics.
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheStale = "stale"
	cacheError = "error"
)

// cacheFile is the on-disk layout of the event cache.
type cacheFile struct {
	LastRefreshDate string            `json:"last_refresh_date"`
	Source          string            `json:"source"`
	Records         []model.RawRecord `json:"records"`
}

// CachedSource serves today's records from a JSON file, refreshing it from
// the wrapped source once per day.
type CachedSource struct {
	inner  Source
	path   string
	now    func() time.Time
	logger logger.Logger
}

// NewCachedSource wraps inner with a cache stored at path.
func NewCachedSource(inner Source, path string, opts ...Option) *CachedSource {
	o := applyOptions(opts)
	return &CachedSource{
		inner:  inner,
		path:   path,
		now:    o.now,
		logger: o.logger.Named("event-cache"),
	}
}

// Name implements Source.
func (c *CachedSource) Name() string { return c.inner.Name() }

// Available implements Source.
func (c *CachedSource) Available() bool { return c.inner.Available() }

// ListRawEvents implements Source. A cache that is missing, unreadable or
// from another day triggers a live fetch.
func (c *CachedSource) ListRawEvents(ctx context.Context) ([]model.RawRecord, error) {
	cached, err := c.read()
	switch {
	case err == nil && cached.LastRefreshDate == c.today() && cached.Source == c.inner.Name():
		metrics.RecordCacheLookup(cacheHit)
		c.logger.Debug(ctx, "serving cached events", logger.Int("count", len(cached.Records)))
		return cached.Records, nil
	case err == nil:
		metrics.RecordCacheLookup(cacheStale)
	case os.IsNotExist(err):
		metrics.RecordCacheLookup(cacheMiss)
	default:
		metrics.RecordCacheLookup(cacheError)
		c.logger.Warn(ctx, "ignoring unreadable event cache", logger.String("path", c.path), logger.Error(err))
	}

	records, err := c.Refresh(ctx)
	if errors.Is(err, ErrCacheWrite) {
		c.logger.Warn(ctx, "could not write event cache", logger.String("path", c.path), logger.Error(err))
		return records, nil
	}
	return records, err
}

// Refresh fetches from the wrapped source and rewrites the cache. When only
// the write fails, the fetched records are returned along with an error
// wrapping ErrCacheWrite.
func (c *CachedSource) Refresh(ctx context.Context) ([]model.RawRecord, error) {
	records, err := c.inner.ListRawEvents(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.write(cacheFile{LastRefreshDate: c.today(), Source: c.inner.Name(), Records: records}); err != nil {
		return records, err
	}
	c.logger.Debug(ctx, "event cache refreshed", logger.String("path", c.path), logger.Int("count", len(records)))
	return records, nil
}

func (c *CachedSource) today() string {
	return c.now().Format(model.DateLayout)
}

func (c *CachedSource) read() (cacheFile, error) {
	var cf cacheFile
	data, err := os.ReadFile(c.path)
	if err != nil {
		return cf, err
	}
	if err := json.Unmarshal(data, &cf); err != nil {
		return cf, fmt.Errorf("%w: %w", ErrCacheUnreadable, err)
	}
	return cf, nil
}

// write replaces the cache atomically: temp file in the same directory,
// then rename.
func (c *CachedSource) write(cf cacheFile) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}

	data, err := json.MarshalIndent(&cf, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}

	tmp, err := os.CreateTemp(dir, ".ocu-events-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	return nil
}
