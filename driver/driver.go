// Package driver orchestrates the core compiler pipeline — normalize,
// validate, emit — and the ambient concerns around it: loading the IR and
// catalog documents, assigning a request id, recording metrics, and the
// sandbox request/response file contract (spec.md §4.8, §5).
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/freneticmonkey/graphc/catalog"
	"github.com/freneticmonkey/graphc/emit"
	"github.com/freneticmonkey/graphc/ir"
	"github.com/freneticmonkey/graphc/normalize"
	"github.com/freneticmonkey/graphc/validate"
)

// Driver owns one compile session's ambient state: its metrics instruments
// and logger. A Driver must not be shared across concurrent compiles
// without external synchronization — the same restriction the core places
// on its own per-compile state (spec.md §5).
type Driver struct {
	metrics *metricsHandler
	log     *slog.Logger
}

// New builds a Driver that records metrics against meter. Callers that
// don't care about metrics pass noop.NewMeterProvider().Meter("").
func New(meter metric.Meter, log *slog.Logger) (*Driver, error) {
	mh, err := newMetricsHandler(meter)
	if err != nil {
		return nil, fmt.Errorf("building metrics handler: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Driver{metrics: mh, log: log}, nil
}

// Result is one compile invocation's outcome: the opaque request id this
// invocation was assigned, the normalized IR and catalog it compiled
// (ready to embed in a SandboxRequest), plus the emitter's output.
type Result struct {
	RequestID string
	IR        ir.IR
	Catalog   catalog.Catalog
	Source    string
	Mapping   []emit.MappingEntry
}

// Compile loads irPath (and, if non-empty, catalogPath), then runs
// normalize -> validate -> emit, recording a metric and a phase-duration
// histogram sample for each phase (spec.md §4.8). A validation failure is
// returned as a *validate.Error; the caller maps that to CLI exit code 2.
func (d *Driver) Compile(ctx context.Context, irPath, catalogPath string) (*Result, error) {
	requestID := uuid.New().String()
	log := d.log.With("request_id", requestID)
	d.metrics.recordAttempted(ctx, requestID)

	doc, err := ir.Load(irPath)
	if err != nil {
		d.metrics.recordFailed(ctx, requestID, "load")
		return nil, fmt.Errorf("loading IR: %w", err)
	}

	cat := catalog.Catalog{}
	if catalogPath != "" {
		cat, err = catalog.Load(catalogPath)
		if err != nil {
			d.metrics.recordFailed(ctx, requestID, "load")
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
	}

	normalized := d.timedPhase(ctx, "normalize", func() ir.IR {
		return normalize.Document(*doc)
	})

	if err := d.timedPhaseErr(ctx, "validate", func() error {
		return validate.Document(normalized, cat)
	}); err != nil {
		log.Warn("compile failed validation", "error", err)
		d.metrics.recordFailed(ctx, requestID, "validate")
		return nil, err
	}

	var result *emit.Result
	if err := d.timedPhaseErr(ctx, "emit", func() error {
		var emitErr error
		result, emitErr = emit.Emit(normalized, cat)
		return emitErr
	}); err != nil {
		d.metrics.recordFailed(ctx, requestID, "emit")
		return nil, fmt.Errorf("emitting source: %w", err)
	}

	d.metrics.recordSucceeded(ctx, requestID)
	log.Info("compile succeeded", "mapping_entries", len(result.Mapping))

	return &Result{
		RequestID: requestID,
		IR:        normalized,
		Catalog:   cat,
		Source:    result.Source,
		Mapping:   result.Mapping,
	}, nil
}

func (d *Driver) timedPhase(ctx context.Context, phase string, fn func() ir.IR) ir.IR {
	start := time.Now()
	out := fn()
	d.metrics.recordPhase(ctx, phase, time.Since(start).Seconds())
	return out
}

func (d *Driver) timedPhaseErr(ctx context.Context, phase string, fn func() error) error {
	start := time.Now()
	err := fn()
	d.metrics.recordPhase(ctx, phase, time.Since(start).Seconds())
	return err
}
