// Package policy defines what happens to rows whose column holds an enum
// value that is being removed, and resolves the effective policy for a
// column during an alteration.
package policy

import (
	"fmt"

	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/enumset"
)

// Kind identifies a removal policy.
type Kind int

const (
	// KindProtect blocks the alteration if any row still holds a removed value.
	KindProtect Kind = iota
	// KindCascade deletes rows holding a removed value.
	KindCascade
	// KindSetNull sets the column to NULL for rows holding a removed value.
	KindSetNull
	// KindSetDefault sets the column to its declared default value.
	KindSetDefault
	// KindSetValue sets the column to an explicit substitute value.
	KindSetValue
)

// String returns the policy kind name.
func (k Kind) String() string {
	switch k {
	case KindProtect:
		return "protect"
	case KindCascade:
		return "cascade"
	case KindSetNull:
		return "set_null"
	case KindSetDefault:
		return "set_default"
	case KindSetValue:
		return "set_value"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RemovalPolicy is the action taken for a row whose column holds a value
// being removed from the enum. Value is the resolution value for
// KindSetDefault and KindSetValue; it is empty otherwise.
type RemovalPolicy struct {
	Kind  Kind   `yaml:"kind"`
	Value string `yaml:"value,omitempty"`
}

// Protect returns the blocking policy. It is the declaration-time default.
func Protect() RemovalPolicy {
	return RemovalPolicy{Kind: KindProtect}
}

// Cascade returns the row-deleting policy.
func Cascade() RemovalPolicy {
	return RemovalPolicy{Kind: KindCascade}
}

// SetNull returns the policy that nulls out affected columns.
func SetNull() RemovalPolicy {
	return RemovalPolicy{Kind: KindSetNull}
}

// SetDefault returns the policy that resets affected columns to the
// column's declared default value.
func SetDefault(value string) RemovalPolicy {
	return RemovalPolicy{Kind: KindSetDefault, Value: value}
}

// SetValue returns the policy that overwrites affected columns with an
// explicit substitute value.
func SetValue(value string) RemovalPolicy {
	return RemovalPolicy{Kind: KindSetValue, Value: value}
}

// String returns a short description of the policy.
func (p RemovalPolicy) String() string {
	switch p.Kind {
	case KindSetDefault, KindSetValue:
		return fmt.Sprintf("%s(%s)", p.Kind, p.Value)
	default:
		return p.Kind.String()
	}
}

// Mutates reports whether the policy rewrites column values (as opposed to
// blocking or deleting rows).
func (p RemovalPolicy) Mutates() bool {
	return p.Kind == KindSetNull || p.Kind == KindSetDefault || p.Kind == KindSetValue
}

// Resolve determines the effective policy for one column during an
// alteration that removes the given values, and whether the column must be
// widened to a transition type before narrowing DDL runs.
//
// The override, when non-nil, replaces the column's declared policy for
// this alteration only.
//
// A transition type is needed exactly when the column's live data may
// still legally hold a removed value at the moment of narrowing: a cascade
// delete resolves through the host's collector after widening, and a
// set-default whose default is itself being removed keeps the old value in
// play until cleanup.
func Resolve(declared RemovalPolicy, removed enumset.Snapshot, override *RemovalPolicy) (RemovalPolicy, bool, error) {
	effective := declared
	if override != nil {
		effective = *override
	}

	switch effective.Kind {
	case KindProtect, KindCascade, KindSetNull:
	case KindSetDefault:
		if effective.Value == "" {
			return RemovalPolicy{}, false, enerr.New(enerr.ErrPolicyInvalid, "set_default policy requires the column's default value")
		}
	case KindSetValue:
		if effective.Value == "" {
			return RemovalPolicy{}, false, enerr.New(enerr.ErrPolicyInvalid, "set_value policy requires a substitute value")
		}
		if removed.Contains(effective.Value) {
			return RemovalPolicy{}, false, enerr.New(enerr.ErrPolicyInvalid, "substitute value is itself being removed").
				With("value", effective.Value)
		}
	default:
		return RemovalPolicy{}, false, enerr.Newf(enerr.ErrPolicyInvalid, "unknown removal policy %d", int(effective.Kind))
	}

	needsTransition := effective.Kind == KindCascade ||
		(effective.Kind == KindSetDefault && removed.Contains(effective.Value))

	return effective, needsTransition, nil
}
