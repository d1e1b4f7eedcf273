// Package enumset provides the immutable value-set representation of an
// enum type at one point in migration history. Snapshots are replaced
// wholesale on every change, never mutated in place.
package enumset

import "slices"

// Snapshot is a named, ordered set of enum values.
// Order is insertion order; it defines the sort order of the database type
// on dialects with declared enums. The zero value is an empty unnamed set.
type Snapshot struct {
	name   string
	values []string
	index  map[string]struct{}
}

// New creates a Snapshot with the given name and values.
// Duplicate values are dropped, keeping the first occurrence.
func New(name string, values ...string) Snapshot {
	s := Snapshot{
		name:  name,
		index: make(map[string]struct{}, len(values)),
	}
	for _, v := range values {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.values = append(s.values, v)
	}
	return s
}

// Name returns the enum type name.
func (s Snapshot) Name() string {
	return s.name
}

// Len returns the number of values.
func (s Snapshot) Len() int {
	return len(s.values)
}

// IsEmpty reports whether the snapshot holds no values.
func (s Snapshot) IsEmpty() bool {
	return len(s.values) == 0
}

// Contains reports whether v is a member of the snapshot.
func (s Snapshot) Contains(v string) bool {
	_, ok := s.index[v]
	return ok
}

// Values returns the values in insertion order.
// The returned slice is a copy; mutating it does not affect the snapshot.
func (s Snapshot) Values() []string {
	return slices.Clone(s.values)
}

// Union returns a new snapshot holding the values of s followed by the
// values of other that s does not already contain. The result keeps s's name.
func (s Snapshot) Union(other Snapshot) Snapshot {
	merged := make([]string, 0, len(s.values)+len(other.values))
	merged = append(merged, s.values...)
	merged = append(merged, other.values...)
	return New(s.name, merged...)
}

// Difference returns a new snapshot holding the values of s that are not
// members of other. The result keeps s's name.
func (s Snapshot) Difference(other Snapshot) Snapshot {
	kept := make([]string, 0, len(s.values))
	for _, v := range s.values {
		if !other.Contains(v) {
			kept = append(kept, v)
		}
	}
	return New(s.name, kept...)
}

// WithName returns a copy of s under a different name.
func (s Snapshot) WithName(name string) Snapshot {
	return New(name, s.values...)
}

// Equal reports whether two snapshots hold the same value set.
// Order and name are not part of equality; only membership is.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for _, v := range s.values {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}
