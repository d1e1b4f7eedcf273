package policy

import (
	"testing"

	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/enumset"
)

func TestResolveTransitionTruthTable(t *testing.T) {
	removed := enumset.New("", "blue")

	tests := []struct {
		name           string
		declared       RemovalPolicy
		wantTransition bool
	}{
		{"protect never widens", Protect(), false},
		{"cascade always widens", Cascade(), true},
		{"set_null never widens", SetNull(), false},
		{"set_default surviving value", SetDefault("red"), false},
		{"set_default removed value", SetDefault("blue"), true},
		{"set_value surviving value", SetValue("green"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effective, needsTransition, err := Resolve(tt.declared, removed, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if effective != tt.declared {
				t.Errorf("effective = %v, want %v", effective, tt.declared)
			}
			if needsTransition != tt.wantTransition {
				t.Errorf("needsTransition = %v, want %v", needsTransition, tt.wantTransition)
			}
		})
	}
}

func TestResolveOverride(t *testing.T) {
	removed := enumset.New("", "blue")
	override := SetNull()

	effective, needsTransition, err := Resolve(Cascade(), removed, &override)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if effective.Kind != KindSetNull {
		t.Errorf("effective = %v, want set_null override", effective)
	}
	if needsTransition {
		t.Error("overridden set_null policy should not need a transition type")
	}
}

func TestResolveRejectsRemovedSubstitute(t *testing.T) {
	removed := enumset.New("", "blue")

	_, _, err := Resolve(SetValue("blue"), removed, nil)
	if !enerr.Is(err, enerr.ErrPolicyInvalid) {
		t.Errorf("err = %v, want ErrPolicyInvalid", err)
	}
}

func TestResolveRejectsEmptyValues(t *testing.T) {
	removed := enumset.New("", "blue")

	if _, _, err := Resolve(SetValue(""), removed, nil); !enerr.Is(err, enerr.ErrPolicyInvalid) {
		t.Errorf("set_value without value: err = %v, want ErrPolicyInvalid", err)
	}
	if _, _, err := Resolve(SetDefault(""), removed, nil); !enerr.Is(err, enerr.ErrPolicyInvalid) {
		t.Errorf("set_default without value: err = %v, want ErrPolicyInvalid", err)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		p    RemovalPolicy
		want string
	}{
		{Protect(), "protect"},
		{Cascade(), "cascade"},
		{SetNull(), "set_null"},
		{SetDefault("red"), "set_default(red)"},
		{SetValue("green"), "set_value(green)"},
	}

	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
