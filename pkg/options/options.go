// Package options provides functional-options configuration for the
// predicate evaluation core, following the same With*/OptionFunc pattern
// used throughout the rest of this module: a package-level default,
// overridden by applying OptionFuncs on top of it.
package options

import "strings"

// Options holds the tunable parameters of the filter core.
type Options struct {
	// ServiceName is passed to the logger constructor used by components
	// that don't receive an explicit *zap.SugaredLogger.
	ServiceName string `json:"serviceName"`

	// RegexPointLookupRatio is the selectivity cutoff of spec §4.3: when
	// the n-gram index's candidate set for a regex is smaller than the
	// segment's record count divided by this ratio, the segment provider
	// performs point lookups of each candidate instead of streaming every
	// record. The spec pins this at 10 ("strictly fewer than one-tenth")
	// and calls it a tuned constant that must be preserved across ports;
	// it is exposed here, rather than hardcoded, so that preservation is
	// an explicit, inspectable decision instead of a buried literal.
	RegexPointLookupRatio uint64 `json:"regexPointLookupRatio"`
}

const (
	// DefaultServiceName names the logger used when no ServiceName is set.
	DefaultServiceName = "predicatefilter"

	// DefaultRegexPointLookupRatio is the one-tenth cutoff from spec §4.3.
	DefaultRegexPointLookupRatio uint64 = 10
)

var defaultOptions = Options{
	ServiceName:           DefaultServiceName,
	RegexPointLookupRatio: DefaultRegexPointLookupRatio,
}

// NewDefaultOptions returns a copy of the package's default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}

// OptionFunc is a function that modifies an Options value in place.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its package default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithServiceName sets the name under which this filter core's logger
// identifies itself.
func WithServiceName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.ServiceName = name
		}
	}
}

// WithRegexPointLookupRatio overrides the regex selectivity cutoff. A ratio
// of zero is rejected (CompactData.Regex divides the segment's record count
// by it) and silently ignored, matching the teacher's defensive-clamp style
// in WithSegmentSize.
func WithRegexPointLookupRatio(ratio uint64) OptionFunc {
	return func(o *Options) {
		if ratio > 0 {
			o.RegexPointLookupRatio = ratio
		}
	}
}

// Apply builds an Options value from defaults overridden by opts in order.
func Apply(opts ...OptionFunc) Options {
	o := NewDefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
