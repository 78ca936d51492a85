// Package derivedstore implements spec.md §4.H: the persistence layer for
// facts the evaluator derives, separate from whatever store holds the
// explicit triples a caller asserted. It is backed by modernc.org/sqlite, a
// pure-Go SQLite driver, so the reasoner never needs cgo to durably track
// what it has derived and why (each row records the producing rule's name;
// the backward trace in internal/trace works from rule structure and does
// not read these rows).
package derivedstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rdfreason/reasoner/internal/reasonerr"
	"github.com/rdfreason/reasoner/internal/telemetry"
	"github.com/rdfreason/reasoner/internal/term"
)

const schema = `
CREATE TABLE IF NOT EXISTS derived_facts (
	subject_kind    TEXT NOT NULL,
	subject_value   TEXT NOT NULL,
	predicate_kind  TEXT NOT NULL,
	predicate_value TEXT NOT NULL,
	object_kind     TEXT NOT NULL,
	object_value    TEXT NOT NULL,
	object_lit_kind  TEXT NOT NULL DEFAULT '',
	object_lit_extra TEXT NOT NULL DEFAULT '',
	rule_name       TEXT NOT NULL,
	PRIMARY KEY (subject_kind, subject_value, predicate_kind, predicate_value,
	             object_kind, object_value, object_lit_kind, object_lit_extra)
);
CREATE INDEX IF NOT EXISTS derived_facts_by_predicate
	ON derived_facts (predicate_kind, predicate_value);
`

// Store is a handle to one derived-fact table. Like compiler.Registry, it is
// an explicit value a caller owns and threads through, not a package-level
// singleton.
type Store struct {
	db *sql.DB
	tr *telemetry.Tracer
}

// Open creates (or reuses) the sqlite database at dsn and ensures the
// derived_facts table exists. dsn follows modernc.org/sqlite conventions,
// e.g. "file:reasoner.db?cache=shared" or ":memory:" for a scratch store.
func Open(ctx context.Context, dsn string, tr *telemetry.Tracer) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, reasonerr.New(reasonerr.StorageFailure, "derivedstore.Open", err, "opening %q", dsn)
	}
	// SQLite serializes writers regardless; capping the pool at one
	// connection also keeps an in-memory DSN (":memory:"/"file::memory:")
	// from handing different goroutines isolated, empty databases.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, reasonerr.New(reasonerr.StorageFailure, "derivedstore.Open", err, "creating schema")
	}
	return &Store{db: db, tr: tr}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// InsertDerived records fact as having been derived by ruleName. Inserting a
// fact already present is a no-op (same provenance or not — the first
// recorded rule name wins, since a fact is either derived or it isn't).
func (s *Store) InsertDerived(ctx context.Context, fact term.Triple, ruleName string) error {
	sc, pc, oc := encodeTerm(fact.S), encodeTerm(fact.P), encodeTerm(fact.O)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO derived_facts (
			subject_kind, subject_value, predicate_kind, predicate_value,
			object_kind, object_value, object_lit_kind, object_lit_extra, rule_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		sc.Kind, sc.Value, pc.Kind, pc.Value, oc.Kind, oc.Value, oc.LitKind, oc.LitExtra, ruleName)
	if err != nil {
		return reasonerr.New(reasonerr.StorageFailure, "derivedstore.InsertDerived", err, "inserting %s", fact)
	}
	return nil
}

// DeleteDerived removes fact if present. Deleting an absent fact is not an error.
func (s *Store) DeleteDerived(ctx context.Context, fact term.Triple) error {
	sc, pc, oc := encodeTerm(fact.S), encodeTerm(fact.P), encodeTerm(fact.O)
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM derived_facts WHERE
			subject_kind = ? AND subject_value = ? AND
			predicate_kind = ? AND predicate_value = ? AND
			object_kind = ? AND object_value = ? AND
			object_lit_kind = ? AND object_lit_extra = ?`,
		sc.Kind, sc.Value, pc.Kind, pc.Value, oc.Kind, oc.Value, oc.LitKind, oc.LitExtra)
	if err != nil {
		return reasonerr.New(reasonerr.StorageFailure, "derivedstore.DeleteDerived", err, "deleting %s", fact)
	}
	return nil
}

// DerivedExists reports whether fact is currently recorded as derived.
func (s *Store) DerivedExists(ctx context.Context, fact term.Triple) (bool, error) {
	sc, pc, oc := encodeTerm(fact.S), encodeTerm(fact.P), encodeTerm(fact.O)
	row := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM derived_facts WHERE
			subject_kind = ? AND subject_value = ? AND
			predicate_kind = ? AND predicate_value = ? AND
			object_kind = ? AND object_value = ? AND
			object_lit_kind = ? AND object_lit_extra = ? LIMIT 1`,
		sc.Kind, sc.Value, pc.Kind, pc.Value, oc.Kind, oc.Value, oc.LitKind, oc.LitExtra)
	var one int
	err := row.Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, reasonerr.New(reasonerr.StorageFailure, "derivedstore.DerivedExists", err, "checking %s", fact)
	default:
		return true, nil
	}
}

// Count returns the total number of derived facts recorded.
func (s *Store) Count(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM derived_facts`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, reasonerr.New(reasonerr.StorageFailure, "derivedstore.Count", err, "counting")
	}
	return n, nil
}

// ClearAll removes every derived fact, used when a config change invalidates
// the whole closure (e.g. a profile switch) rather than a targeted deletion.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM derived_facts`); err != nil {
		return reasonerr.New(reasonerr.StorageFailure, "derivedstore.ClearAll", err, "clearing")
	}
	return nil
}

// LookupDerived returns every derived fact matching pattern, honoring
// repeated variables (e.g. (?x, p, ?x) only returns facts whose subject and
// object coincide). Ground positions narrow the SQL query directly; a
// repeated variable is checked after decoding, since SQLite has no notion of
// the pattern's variable identity.
func (s *Store) LookupDerived(ctx context.Context, pattern term.Pattern) ([]term.Triple, error) {
	where := ""
	var args []any
	addGround := func(prefix string, t term.Term) {
		if _, isVar := t.(term.Variable); isVar {
			return
		}
		c := encodeTerm(t)
		where += fmt.Sprintf(" AND %s_kind = ? AND %s_value = ?", prefix, prefix)
		args = append(args, c.Kind, c.Value)
		if prefix == "object" {
			where += " AND object_lit_kind = ? AND object_lit_extra = ?"
			args = append(args, c.LitKind, c.LitExtra)
		}
	}
	addGround("subject", pattern.S)
	addGround("predicate", pattern.P)
	addGround("object", pattern.O)

	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_kind, subject_value, predicate_kind, predicate_value,
		       object_kind, object_value, object_lit_kind, object_lit_extra
		FROM derived_facts WHERE 1=1`+where, args...)
	if err != nil {
		return nil, reasonerr.New(reasonerr.StorageFailure, "derivedstore.LookupDerived", err, "querying %s", pattern)
	}
	defer rows.Close()

	var out []term.Triple
	for rows.Next() {
		var sc, pc, oc columns
		if err := rows.Scan(&sc.Kind, &sc.Value, &pc.Kind, &pc.Value, &oc.Kind, &oc.Value, &oc.LitKind, &oc.LitExtra); err != nil {
			return nil, reasonerr.New(reasonerr.StorageFailure, "derivedstore.LookupDerived", err, "scanning row")
		}
		fact := term.Triple{S: decodeTerm(sc), P: decodeTerm(pc), O: decodeTerm(oc)}
		if !consistentWithRepeatedVariables(pattern, fact) {
			continue
		}
		out = append(out, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, reasonerr.New(reasonerr.StorageFailure, "derivedstore.LookupDerived", err, "iterating rows")
	}
	return out, nil
}

// LookupExplicit delegates to an externally supplied lookup.Func rather than
// owning explicit-triple storage itself (spec.md §4.H: "lookup_explicit is
// delegated" — the reasoner doesn't own the caller's base graph).
func (s *Store) LookupExplicit(pattern term.Pattern, explicit func(term.Pattern) ([]term.Triple, error)) ([]term.Triple, error) {
	return explicit(pattern)
}

func consistentWithRepeatedVariables(pattern term.Pattern, fact term.Triple) bool {
	bound := map[term.Variable]term.Term{}
	check := func(pt term.Term, ft term.Term) bool {
		v, isVar := pt.(term.Variable)
		if !isVar {
			return true
		}
		if prior, ok := bound[v]; ok {
			return prior.Equal(ft)
		}
		bound[v] = ft
		return true
	}
	return check(pattern.S, fact.S) && check(pattern.P, fact.P) && check(pattern.O, fact.O)
}
