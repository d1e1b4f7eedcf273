package enerr

import (
	"strings"
	"testing"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"color", "color", 0},
		{"color", "colour", 1},
		{"", "abc", 3},
		{"abc", "", 3},
		{"status", "sattus", 2},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClosestMatch(t *testing.T) {
	options := []string{"color", "status", "priority"}

	tests := []struct {
		input     string
		wantMatch string
		wantOK    bool
	}{
		{"colr", "color", true},
		{"staus", "status", true},
		{"priority", "priority", true},
		{"zzzzzz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		match, ok := ClosestMatch(tt.input, options)
		if match != tt.wantMatch || ok != tt.wantOK {
			t.Errorf("ClosestMatch(%q) = (%q, %v), want (%q, %v)",
				tt.input, match, ok, tt.wantMatch, tt.wantOK)
		}
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrStateNotFound, "enum does not exist").
		WithEnum("colr").
		WithSuggestion("colr", []string{"color", "status"})
	if !strings.Contains(err.Error(), "did you mean 'color'?") {
		t.Errorf("missing suggestion in %q", err.Error())
	}

	// No near match leaves the error untouched.
	err = New(ErrStateNotFound, "enum does not exist").
		WithSuggestion("zzzzzz", []string{"color"})
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("unexpected suggestion in %q", err.Error())
	}
}
