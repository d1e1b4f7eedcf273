package ident

import (
	"strings"
	"testing"

	"github.com/hlop3z/enumig/internal/enerr"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		ident   string
		wantErr bool
	}{
		{"simple", "enum", "color", false},
		{"with underscore", "enum", "order_status", false},
		{"with digits", "column", "level2", false},
		{"empty", "enum", "", true},
		{"uppercase", "enum", "Color", true},
		{"camel case", "column", "orderStatus", true},
		{"leading underscore", "table", "_shirts", true},
		{"trailing underscore", "table", "shirts_", true},
		{"double underscore", "enum", "order__status", true},
		{"leading digit", "column", "2fast", true},
		{"reserved word", "table", "select", true},
		{"reserved type name", "enum", "enum", true},
		{"spaces", "enum", "order status", true},
		{"quote injection", "enum", "x'; drop table shirts; --", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidName(tt.kind, tt.ident)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidName(%q, %q) error = %v, wantErr %v",
					tt.kind, tt.ident, err, tt.wantErr)
			}
			if err != nil && !enerr.Is(err, enerr.ErrAlterInvalid) {
				t.Errorf("error code = %v, want ErrAlterInvalid", err)
			}
		})
	}
}

func TestValidNameLength(t *testing.T) {
	long := strings.Repeat("a", 64)
	if err := ValidName("table", long); err == nil {
		t.Error("64 char table name accepted")
	}
	if err := ValidName("table", strings.Repeat("a", 63)); err != nil {
		t.Errorf("63 char table name rejected: %v", err)
	}

	// Enum names leave headroom for scratch type suffixes.
	if err := ValidName("enum", strings.Repeat("a", 50)); err == nil {
		t.Error("50 char enum name accepted, scratch names would overflow")
	}
	if err := ValidName("enum", strings.Repeat("a", 48)); err != nil {
		t.Errorf("48 char enum name rejected: %v", err)
	}
}

func TestValidValue(t *testing.T) {
	for _, v := range []string{"red", "in-progress", "UP", "level 2", "éclair"} {
		if err := ValidValue(v); err != nil {
			t.Errorf("ValidValue(%q) = %v, want nil", v, err)
		}
	}
	for _, v := range []string{"", "it's", `say "hi"`} {
		if err := ValidValue(v); err == nil {
			t.Errorf("ValidValue(%q) = nil, want error", v)
		}
	}
}

func TestIsReserved(t *testing.T) {
	if !IsReserved("SELECT") {
		t.Error("SELECT not reserved")
	}
	if IsReserved("color") {
		t.Error("color reserved")
	}
}
