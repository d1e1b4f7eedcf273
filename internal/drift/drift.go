package drift

import (
	"context"
	"database/sql"
	"sort"

	"github.com/hlop3z/enumig/internal/dialect"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/introspect"
	"github.com/hlop3z/enumig/internal/state"
)

// Detector compares the recorded enum state against a live database.
type Detector struct {
	db      *sql.DB
	dialect dialect.Dialect
}

// NewDetector creates a drift detector. Returns nil if db or d is nil.
func NewDetector(db *sql.DB, d dialect.Dialect) *Detector {
	if db == nil || d == nil {
		return nil
	}
	return &Detector{db: db, dialect: d}
}

// Mismatch is one enum whose recorded and live value sets differ. A nil
// Live slice means the enum is missing from the database entirely.
type Mismatch struct {
	Enum     string
	Recorded []string
	Live     []string
}

// Report is the outcome of one drift detection run.
type Report struct {
	HasDrift     bool
	RecordedRoot string
	LiveRoot     string
	Mismatches   []Mismatch
}

// Detect introspects the database and compares it against reg, enum by
// enum. Value sets compare as sets: declared-type label order is an
// artifact of migration history, not drift.
func (d *Detector) Detect(ctx context.Context, reg *state.Registry) (*Report, error) {
	inspector := introspect.New(d.db, d.dialect)
	if inspector == nil {
		return nil, enerr.New(enerr.ErrCapability, "dialect has no introspector").
			With("dialect", d.dialect.Name())
	}

	live, err := inspector.Introspect(ctx)
	if err != nil {
		return nil, err
	}

	recorded := make(map[string][]string)
	observed := make(map[string][]string)
	var mismatches []Mismatch

	for _, name := range reg.EnumNames() {
		snap, err := reg.EnumSnapshot(name)
		if err != nil {
			return nil, err
		}
		recorded[name] = sortedSet(snap.Values())

		liveValues, found := d.liveValuesFor(reg, live, name)
		if !found {
			// Only count absence as drift when the dialect actually
			// materializes enums: a declared type that should exist, or
			// bound columns whose checks should exist. On sqlite an
			// unenforced enum has no observable footprint.
			caps := d.dialect.Capabilities()
			enforced := caps.RequiresDeclaration ||
				(caps.AlterableConstraints && len(reg.ColumnsTypedAs(name)) > 0)
			if enforced {
				mismatches = append(mismatches, Mismatch{
					Enum:     name,
					Recorded: recorded[name],
				})
			}
			continue
		}
		observed[name] = sortedSet(liveValues)
		if !equalSets(recorded[name], observed[name]) {
			mismatches = append(mismatches, Mismatch{
				Enum:     name,
				Recorded: recorded[name],
				Live:     observed[name],
			})
		}
	}

	recordedHash, err := ComputeStateHash(recorded)
	if err != nil {
		return nil, err
	}
	liveHash, err := ComputeStateHash(observed)
	if err != nil {
		return nil, err
	}

	return &Report{
		HasDrift:     len(mismatches) > 0,
		RecordedRoot: recordedHash.Root,
		LiveRoot:     liveHash.Root,
		Mismatches:   mismatches,
	}, nil
}

// liveValuesFor resolves the value set the database enforces for one enum.
// Declared types answer directly; emulated enums are observed through the
// check constraints of the columns bound to them.
func (d *Detector) liveValuesFor(reg *state.Registry, live *introspect.LiveState, enum string) ([]string, bool) {
	if values, ok := live.Types[enum]; ok {
		return values, true
	}
	for _, col := range reg.ColumnsTypedAs(enum) {
		if values, ok := live.Checks[col.Table+"."+col.Column]; ok {
			return values, true
		}
	}
	return nil, false
}

func sortedSet(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
