// Package plan turns an enum alteration request into an ordered execution
// plan. Planning is pure: it branches over the dialect's capability
// descriptor and renders SQL through the dialect's template operations,
// but never touches a connection.
package plan

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/hlop3z/enumig/internal/enumset"
	"github.com/hlop3z/enumig/internal/policy"
)

// Statement is one planned SQL statement with its bound parameters.
// DDL statements inline their literals; Args is used by data statements.
type Statement struct {
	SQL  string
	Args []any
}

// DataStep is one planned data-migration action: apply a removal policy to
// every row of one column holding a removed value. Executed between the
// pre and post phases, set-based, never row by row.
type DataStep struct {
	Table   string
	Column  string
	Policy  policy.RemovalPolicy
	Removed []string
}

// Plan is the ordered result of planning one alteration. Phases execute
// strictly in order pre, data, post; within a phase, statements execute in
// list order. A plan is computed once and immutable once returned.
type Plan struct {
	Enum string
	From enumset.Snapshot
	To   enumset.Snapshot

	Pre  []Statement
	Data []DataStep
	Post []Statement

	// ScratchTypes lists temporary type names created by this plan, in
	// creation order, for cleanup reporting when a non-transactional
	// sequence fails mid-way.
	ScratchTypes []string

	// Notes carries dialect limitations the plan worked around, surfaced
	// to the user at dry-run and apply time.
	Notes []string
}

// IsEmpty reports whether the plan does nothing.
func (p *Plan) IsEmpty() bool {
	return len(p.Pre) == 0 && len(p.Data) == 0 && len(p.Post) == 0
}

// SQL returns all planned statements in execution order, with data steps
// summarized, for dry-run display.
func (p *Plan) SQL() []string {
	var out []string
	for _, s := range p.Pre {
		out = append(out, s.SQL)
	}
	for _, step := range p.Data {
		var b strings.Builder
		b.WriteString("-- data: ")
		b.WriteString(step.Table)
		b.WriteString(".")
		b.WriteString(step.Column)
		b.WriteString(" ")
		b.WriteString(step.Policy.String())
		b.WriteString(" [")
		b.WriteString(strings.Join(step.Removed, ", "))
		b.WriteString("]")
		out = append(out, b.String())
	}
	for _, s := range p.Post {
		out = append(out, s.SQL)
	}
	return out
}

// TempTypeName returns the scratch name for the replacement type created
// during a narrowing swap. The name derives from the enum name and a
// migration-local salt, so concurrent alterations and leftovers from a
// prior failed run cannot collide the way fixed global names would.
func TempTypeName(enum, salt string) string {
	return enum + "__tmp_" + salt
}

// TransitionTypeName returns the scratch name for the ephemeral widened
// type that keeps columns valid while data is migrated.
func TransitionTypeName(enum, salt string) string {
	return enum + "__tr_" + salt
}

// deriveSalt computes a salt from the alteration plus a per-application
// nonce, used when the caller does not supply one. The nonce keeps a retry
// of the same alteration from colliding with scratch types a previously
// failed run left behind; pass an explicit salt to pin the names instead.
func deriveSalt(enum string, from, to enumset.Snapshot) string {
	h := sha256.New()
	h.Write([]byte(enum))
	for _, v := range from.Values() {
		h.Write([]byte{0})
		h.Write([]byte(v))
	}
	h.Write([]byte{1})
	for _, v := range to.Values() {
		h.Write([]byte{0})
		h.Write([]byte(v))
	}
	var nonce [8]byte
	if _, err := rand.Read(nonce[:]); err == nil {
		h.Write(nonce[:])
	}
	return hex.EncodeToString(h.Sum(nil))[:8]
}
