// Package predicatefilter is the public entry point for constructing and
// running a FilterOperator: the orchestrator that evaluates a predicate
// tree against a log batch and a committed segment pair and returns the
// log-side and segment-side offset bitmaps a downstream k-NN operator
// masks its candidate set with (spec §2, §4.5, §6).
package predicatefilter

import (
	"context"

	"github.com/iamNilotpal/predicatefilter/internal/filter"
	"github.com/iamNilotpal/predicatefilter/pkg/logger"
	"github.com/iamNilotpal/predicatefilter/pkg/options"
)

// Config is the FilterOperator's static configuration: an optional id
// whitelist and an optional predicate tree.
type Config = filter.Config

// Input bundles everything one Run invocation reads: the raw log batch and
// the committed record/metadata segments.
type Input = filter.Input

// Result is a Run invocation's output: a SignedBitmap for the log side and
// one for the segment side.
type Result = filter.Result

// Operator is the public handle on a configured FilterOperator instance. It
// mirrors the constructor/handle split of the teacher's top-level Instance
// type, with the underlying engine replaced end to end.
type Operator struct {
	inner *filter.Operator
}

// New constructs an Operator for service, applying any supplied functional
// options over the package defaults before building its logger and
// delegating to the internal FilterOperator.
func New(service string, config Config, opts ...options.OptionFunc) *Operator {
	resolved := options.Apply(append([]options.OptionFunc{options.WithServiceName(service)}, opts...)...)
	log := logger.New(resolved.ServiceName)
	return &Operator{inner: filter.New(config, resolved, log)}
}

// Run executes the FilterOperator procedure of spec §4.5 against input,
// returning the log-side and segment-side offset bitmaps.
func (o *Operator) Run(ctx context.Context, input Input) (Result, error) {
	return o.inner.Run(ctx, input)
}
