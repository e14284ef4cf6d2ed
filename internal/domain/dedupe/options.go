package dedupe

// Option applies a configuration option to the Deduper.
type Option func(*setDeduper)

// WithCapacity pre-sizes the identity set.
func WithCapacity(n int) Option {
	return func(d *setDeduper) {
		if n > 0 {
			d.capacity = n
		}
	}
}

// WithOnDuplicate registers a callback run whenever a duplicate is rejected.
func WithOnDuplicate(fn func(id string)) Option {
	return func(d *setDeduper) {
		if fn != nil {
			d.onDup = fn
		}
	}
}
