package period

import (
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/mo"
)

const (
	opOccurrences = "occurrences"
	opHas         = "has"
)

// Engine enumerates rules on behalf of long lived callers: it bounds the
// window, caps the result size and caches results.
type Engine struct {
	cache  *RecurrenceCache
	config EngineConfig
	logger *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithConfig replaces the default engine configuration
func WithConfig(config EngineConfig) Option {
	return func(e *Engine) {
		e.config = config
	}
}

// WithLogger sets the engine logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a recurrence engine. Without options it uses
// DefaultEngineConfig and discards logs.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		config: DefaultEngineConfig,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.config.CacheEnabled {
		e.cache = NewRecurrenceCache(e.config.CacheConfig)
	}
	return e
}

// Config returns the configuration the engine runs with
func (e *Engine) Config() EngineConfig {
	return e.config
}

// clampEnd shortens the window to MaxWindow, measured from the later of
// start and the day after last.
func (e *Engine) clampEnd(last mo.Option[time.Time], start, end time.Time) time.Time {
	if e.config.MaxWindow <= 0 || start.IsZero() || end.IsZero() {
		return end
	}
	from := civil(start)
	if l, ok := last.Get(); ok && !l.IsZero() {
		if next := civil(l).AddDate(0, 0, 1); next.After(from) {
			from = next
		}
	}
	limit := from.Add(e.config.MaxWindow)
	if civil(end).After(limit) {
		e.logger.Debug("clamping enumeration window",
			slog.Time("start", from),
			slog.Time("end", end),
			slog.Time("limit", limit))
		return limit
	}
	return end
}

// Occurrences returns the dates on which r fires in [start, end], resuming
// after last when present. The result is a fresh slice the caller owns.
func (e *Engine) Occurrences(r *Rule, last mo.Option[time.Time], start, end time.Time) []time.Time {
	if r == nil {
		return nil
	}
	end = e.clampEnd(last, start, end)

	if e.cache != nil {
		if cached, ok := e.cache.Get(opOccurrences, r, last, start, end); ok {
			if dates, ok := cached.([]time.Time); ok {
				return slices.Clone(dates)
			}
		}
	}

	var dates []time.Time
	for d := range Dates(r, last, start, end) {
		dates = append(dates, d)
		if e.config.MaxOccurrences > 0 && len(dates) >= e.config.MaxOccurrences {
			e.logger.Warn("occurrence limit reached",
				slog.String("rule", r.String()),
				slog.Int("limit", e.config.MaxOccurrences))
			break
		}
	}

	if e.cache != nil {
		e.cache.Set(opOccurrences, r, last, start, end, slices.Clone(dates))
	}
	return dates
}

// HasOccurrenceInRange reports whether r fires at least once in
// [start, end]. It stops at the first date found.
func (e *Engine) HasOccurrenceInRange(r *Rule, last mo.Option[time.Time], start, end time.Time) bool {
	if r == nil {
		return false
	}
	end = e.clampEnd(last, start, end)

	if e.cache != nil {
		if cached, ok := e.cache.Get(opHas, r, last, start, end); ok {
			if has, ok := cached.(bool); ok {
				return has
			}
		}
	}

	has := e.First(r, last, start, end).IsPresent()

	if e.cache != nil {
		e.cache.Set(opHas, r, last, start, end, has)
	}
	return has
}

// First returns the earliest date on which r fires in [start, end].
func (e *Engine) First(r *Rule, last mo.Option[time.Time], start, end time.Time) mo.Option[time.Time] {
	if r == nil {
		return mo.None[time.Time]()
	}
	end = e.clampEnd(last, start, end)
	for d := range Dates(r, last, start, end) {
		return mo.Some(d)
	}
	return mo.None[time.Time]()
}

// CacheStats reports the cache content; it is zero when caching is off.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

// Close releases the cache
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}
