package fits

import (
	"github.com/samcharles93/fits/internal/logger"
	"github.com/samcharles93/fits/pkg/card"
)

// Options configure construction, reading and writing. Apply them through
// the With* functional options.
type Options struct {
	// Record renders table bodies as row records instead of column arrays.
	Record bool
	// Scale applies zero + scale*value to numeric columns on read.
	Scale bool
	// Append emits CONTINUE cards for long strings instead of truncating.
	Append bool
	// Fixed selects fixed-format card emission.
	Fixed bool
	// Card layout hints passed through to the card serializer.
	Slash    int
	LPad     int
	RPad     int
	Truncate bool
	// Warn receives verifier and descriptor warnings. Defaults to the
	// package logger at Warn level.
	Warn func(msg string, args ...any)
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	log := logger.Default()
	return Options{
		Scale:    true,
		Fixed:    true,
		Slash:    32,
		LPad:     1,
		RPad:     1,
		Truncate: true,
		Warn:     log.Warn,
	}
}

func applyOptions(opts []Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithRecords selects the row-record body representation for tables.
func WithRecords(on bool) Option {
	return func(o *Options) { o.Record = on }
}

// WithScaling toggles zero/scale application on read.
func WithScaling(on bool) Option {
	return func(o *Options) { o.Scale = on }
}

// WithAppend toggles CONTINUE emission for long string values.
func WithAppend(on bool) Option {
	return func(o *Options) { o.Append = on }
}

// WithFixedFormat toggles fixed-format card emission.
func WithFixedFormat(on bool) Option {
	return func(o *Options) { o.Fixed = on }
}

// WithSlash sets the comment separator column for rendered cards.
func WithSlash(col int) Option {
	return func(o *Options) { o.Slash = col }
}

// WithCommentPadding sets the spaces before and after the comment slash.
func WithCommentPadding(lpad, rpad int) Option {
	return func(o *Options) {
		o.LPad = lpad
		o.RPad = rpad
	}
}

// WithTruncate toggles silent truncation of over-long cards.
func WithTruncate(on bool) Option {
	return func(o *Options) { o.Truncate = on }
}

// WithWarnings routes verifier warnings to sink instead of the logger.
func WithWarnings(sink func(msg string, args ...any)) Option {
	return func(o *Options) { o.Warn = sink }
}

// WithLogger routes warnings through the given logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Options) { o.Warn = l.Warn }
}

// layout translates the card-facing option subset.
func (o Options) layout() card.Layout {
	return card.Layout{
		Fixed:    o.Fixed,
		Slash:    o.Slash,
		LPad:     o.LPad,
		RPad:     o.RPad,
		Truncate: o.Truncate,
		Append:   o.Append,
	}
}
