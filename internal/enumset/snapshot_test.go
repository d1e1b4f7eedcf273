package enumset

import (
	"slices"
	"testing"
)

func TestNewDeduplicates(t *testing.T) {
	s := New("color", "red", "green", "red", "blue", "green")

	want := []string{"red", "green", "blue"}
	if !slices.Equal(s.Values(), want) {
		t.Errorf("Values = %v, want %v", s.Values(), want)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestContains(t *testing.T) {
	s := New("color", "red", "green", "blue")

	if !s.Contains("green") {
		t.Error("Contains(green) = false")
	}
	if s.Contains("yellow") {
		t.Error("Contains(yellow) = true")
	}
	if s.Contains("") {
		t.Error("Contains(\"\") = true")
	}
}

func TestUnionPreservesOrder(t *testing.T) {
	s := New("color", "red", "green")
	other := New("", "green", "blue")

	got := s.Union(other)
	want := []string{"red", "green", "blue"}
	if !slices.Equal(got.Values(), want) {
		t.Errorf("Union values = %v, want %v", got.Values(), want)
	}
	if got.Name() != "color" {
		t.Errorf("Union name = %q, want %q", got.Name(), "color")
	}
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name   string
		from   []string
		remove []string
		want   []string
	}{
		{"remove one", []string{"red", "green", "blue"}, []string{"blue"}, []string{"red", "green"}},
		{"remove none", []string{"red", "green"}, []string{"yellow"}, []string{"red", "green"}},
		{"remove all", []string{"red"}, []string{"red"}, nil},
		{"empty from", nil, []string{"red"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New("color", tt.from...).Difference(New("", tt.remove...))
			if !slices.Equal(got.Values(), tt.want) {
				t.Errorf("Difference values = %v, want %v", got.Values(), tt.want)
			}
		})
	}
}

func TestEqualIgnoresOrderAndName(t *testing.T) {
	a := New("color", "red", "green", "blue")
	b := New("paint", "blue", "red", "green")

	if !a.Equal(b) {
		t.Error("snapshots with the same value set should be equal")
	}
	if a.Equal(New("color", "red", "green")) {
		t.Error("snapshots with different value sets should not be equal")
	}
}

func TestImmutability(t *testing.T) {
	s := New("color", "red", "green")

	vals := s.Values()
	vals[0] = "mutated"

	if s.Values()[0] != "red" {
		t.Error("mutating the returned slice must not affect the snapshot")
	}
}

func TestWithName(t *testing.T) {
	s := New("color", "red").WithName("color_tmp")
	if s.Name() != "color_tmp" {
		t.Errorf("Name = %q, want color_tmp", s.Name())
	}
	if !s.Contains("red") {
		t.Error("renamed snapshot should keep values")
	}
}

func TestZeroValue(t *testing.T) {
	var s Snapshot
	if !s.IsEmpty() || s.Len() != 0 || s.Contains("x") {
		t.Error("zero snapshot should behave as an empty set")
	}
}
