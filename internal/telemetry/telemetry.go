// Package telemetry provides the single span hook the reasoner calls out
// through (spec.md §6): every compile/optimize/extract_schema/materialize/
// delete/backward_trace/forward_rederive event funnels through here, the way
// cmd/nerd/main.go builds a *zap.Logger once and passes it down instead of
// reaching for package-level logging.
package telemetry

import (
	"time"

	"go.uber.org/zap"
)

// Event names under the reasoner/* namespace (spec.md §6). 17 in total.
// The *Start/*Stop/*Exception members are the literal emitted names; Span
// derives them from the matching *Span stem below, so callers hand Span the
// stem rather than a pre-suffixed member (passing CompileStart to Span would
// double-suffix it into "..._start_start").
const (
	CompileStart     = "reasoner/compile_start"
	CompileStop      = "reasoner/compile_stop"
	CompileException = "reasoner/compile_exception"
	CompileComplete  = "reasoner/compile_complete"

	OptimizeStart    = "reasoner/optimize_start"
	OptimizeStop     = "reasoner/optimize_stop"
	OptimizeComplete = "reasoner/optimize_complete"

	ExtractSchemaStart    = "reasoner/extract_schema_start"
	ExtractSchemaStop     = "reasoner/extract_schema_stop"
	ExtractSchemaComplete = "reasoner/extract_schema_complete"

	MaterializeStart     = "reasoner/materialize_start"
	MaterializeStop      = "reasoner/materialize_stop"
	MaterializeIteration = "reasoner/materialize_iteration"

	DeleteStart = "reasoner/delete_start"
	DeleteStop  = "reasoner/delete_stop"

	BackwardTraceComplete   = "reasoner/backward_trace_complete"
	ForwardRederiveComplete = "reasoner/forward_rederive_complete"
)

// Stems are the unsuffixed roots Span accepts; Span appends _start/_stop/
// _exception itself to produce the members above.
const (
	CompileSpan       = "reasoner/compile"
	OptimizeSpan      = "reasoner/optimize"
	ExtractSchemaSpan = "reasoner/extract_schema"
	MaterializeSpan   = "reasoner/materialize"
	DeleteSpan        = "reasoner/delete"
)

// Tracer is the narrow span contract the reasoner consumes. A nil *Tracer is
// valid and turns every call into a no-op, so components can be exercised in
// tests without constructing a logger.
type Tracer struct {
	log *zap.Logger
}

// New wraps an existing zap logger. Passing nil is valid (see Tracer).
func New(log *zap.Logger) *Tracer {
	return &Tracer{log: log}
}

// Span runs fn, emitting a start event before and a stop event after,
// carrying duration and the metadata fn chooses to contribute via the
// returned fields. Exceptions are logged under the "_exception" variant of
// the event name and re-returned unchanged — the span never swallows errors.
func (t *Tracer) Span(event string, metadata map[string]any, fn func() (map[string]any, error)) error {
	start := time.Now()
	t.emit(event+"_start", metadata)
	fields, err := fn()
	dur := time.Since(start)
	merged := mergeFields(metadata, fields)
	merged["duration_ms"] = dur.Milliseconds()
	if err != nil {
		merged["error"] = err.Error()
		t.emit(event+"_exception", merged)
		return err
	}
	t.emit(event+"_stop", merged)
	return nil
}

// Emit records a single point-in-time event with no duration, used for the
// *_complete and *_iteration events that don't wrap a closure.
func (t *Tracer) Emit(event string, metadata map[string]any) {
	t.emit(event, metadata)
}

func (t *Tracer) emit(event string, metadata map[string]any) {
	if t == nil || t.log == nil {
		return
	}
	fields := make([]zap.Field, 0, len(metadata)+1)
	fields = append(fields, zap.String("event", event))
	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}
	t.log.Info("reasoner span", fields...)
}

func mergeFields(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
