package tbox

import (
	"sync"
	"time"

	"github.com/rdfreason/reasoner/internal/reasonerr"
)

// Status is the lifecycle state of a materialized closure relative to the
// schema and rules that produced it.
type Status int

const (
	// NotStarted means no materialization has ever run.
	NotStarted Status = iota
	// Compiling means the rule set is being compiled/optimized.
	Compiling
	// Materializing means the fixpoint evaluator is running.
	Materializing
	// Materialized means a closure exists and matches the current schema version.
	Materialized
	// Stale means a closure exists but the schema has changed since it was built.
	Stale
	// Failed means the last materialization attempt errored.
	Failed
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Compiling:
		return "compiling"
	case Materializing:
		return "materializing"
	case Materialized:
		return "materialized"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// allowed maps each status to the statuses it may transition to.
var allowed = map[Status]map[Status]bool{
	NotStarted:    {Compiling: true},
	Compiling:     {Materializing: true, Failed: true},
	Materializing: {Materialized: true, Failed: true},
	Materialized:  {Stale: true, Compiling: true},
	Stale:         {Compiling: true},
	Failed:        {Compiling: true},
}

// timeNow is a seam so CreatedAt/UpdatedAt/LastMaterializationAt stay
// testable without depending on wall-clock time directly, matching
// compiler.Compile's timeNow seam.
var timeNow = time.Now

// Tracker is a concurrency-safe handle on one reasoning pipeline's status,
// the way compiler.Registry is an explicit handle rather than global state.
// It realizes spec.md §3's ReasoningStatus: lifecycle state, explicit/derived
// counts, materialization-run count, and the created/updated/
// last-materialization timestamps.
type Tracker struct {
	mu                     sync.RWMutex
	status                 Status
	schemaVersion          string
	lastErr                error
	createdAt              time.Time
	updatedAt              time.Time
	lastMaterializationAt  time.Time
	materializationRuns    int
	explicitCount          int
	derivedCount           int
}

// NewTracker returns a Tracker starting at NotStarted, with CreatedAt and
// UpdatedAt stamped to now.
func NewTracker() *Tracker {
	now := timeNow()
	return &Tracker{status: NotStarted, createdAt: now, updatedAt: now}
}

// Status returns the current status.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// SchemaVersion returns the schema version the current (or most recent)
// materialized closure was built against.
func (t *Tracker) SchemaVersion() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.schemaVersion
}

// LastError returns the error recorded by the most recent Fail call, or nil.
func (t *Tracker) LastError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr
}

// CreatedAt reports when this Tracker was constructed.
func (t *Tracker) CreatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.createdAt
}

// UpdatedAt reports the timestamp of the most recent status-changing call
// (Transition, CompleteMaterialization, Fail, or InvalidateIfStale).
func (t *Tracker) UpdatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.updatedAt
}

// LastMaterializationAt reports when CompleteMaterialization last succeeded,
// the zero time if it never has.
func (t *Tracker) LastMaterializationAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastMaterializationAt
}

// MaterializationRuns counts successful CompleteMaterialization calls.
func (t *Tracker) MaterializationRuns() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.materializationRuns
}

// ExplicitCount and DerivedCount report the last-materialized closure's
// partition sizes, as recorded by the most recent CompleteMaterialization.
func (t *Tracker) ExplicitCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.explicitCount
}

func (t *Tracker) DerivedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.derivedCount
}

// IsError reports whether the tracker's current state is Failed.
func (t *Tracker) IsError() bool {
	return t.Status() == Failed
}

// NeedsRematerialization reports whether the caller should re-run
// materialization before trusting the current closure: true when nothing
// has ever been materialized, the schema has moved on (Stale), or the last
// attempt errored (Failed).
func (t *Tracker) NeedsRematerialization() bool {
	switch t.Status() {
	case NotStarted, Stale, Failed:
		return true
	default:
		return false
	}
}

// ElapsedSinceLastMaterialization reports the time since
// CompleteMaterialization last succeeded. Returns 0 if it never has.
func (t *Tracker) ElapsedSinceLastMaterialization() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.lastMaterializationAt.IsZero() {
		return 0
	}
	return timeNow().Sub(t.lastMaterializationAt)
}

// Transition moves to next, rejecting any move not in the allowed table.
func (t *Tracker) Transition(next Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !allowed[t.status][next] {
		return reasonerr.New(reasonerr.InvalidTransition, "tbox.Tracker.Transition", nil,
			"illegal status transition %s -> %s", t.status, next)
	}
	t.status = next
	t.updatedAt = timeNow()
	return nil
}

// CompleteMaterialization records a successful materialization against
// schemaVersion with explicitCount/derivedCount facts, transitioning to
// Materialized, stamping LastMaterializationAt, and incrementing
// MaterializationRuns.
func (t *Tracker) CompleteMaterialization(schemaVersion string, explicitCount, derivedCount int) error {
	if err := t.Transition(Materialized); err != nil {
		return err
	}
	t.mu.Lock()
	now := timeNow()
	t.schemaVersion = schemaVersion
	t.lastErr = nil
	t.lastMaterializationAt = now
	t.materializationRuns++
	t.explicitCount = explicitCount
	t.derivedCount = derivedCount
	t.mu.Unlock()
	return nil
}

// Fail transitions to Failed and records cause.
func (t *Tracker) Fail(cause error) error {
	if err := t.Transition(Failed); err != nil {
		return err
	}
	t.mu.Lock()
	t.lastErr = cause
	t.mu.Unlock()
	return nil
}

// InvalidateIfStale transitions Materialized -> Stale when currentSchemaVersion
// no longer matches the version the closure was built against. A no-op
// outside the Materialized state.
func (t *Tracker) InvalidateIfStale(currentSchemaVersion string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == Materialized && t.schemaVersion != currentSchemaVersion {
		t.status = Stale
		t.updatedAt = timeNow()
	}
}
