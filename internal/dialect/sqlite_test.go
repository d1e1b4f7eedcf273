package dialect

import (
	"testing"

	"github.com/hlop3z/enumig/internal/enerr"
)

func TestSQLite_Capabilities(t *testing.T) {
	caps := SQLite().Capabilities()

	if caps.HasEnum || caps.RequiresDeclaration {
		t.Errorf("caps = %+v, want emulated enums", caps)
	}
	if !caps.TransactionalDDL {
		t.Error("sqlite supports transactional DDL")
	}
	if caps.AlterableConstraints {
		t.Error("sqlite cannot alter CHECK constraints in place")
	}
}

func TestSQLite_DeclaredTypeOperationsUnsupported(t *testing.T) {
	d := SQLite()

	tests := []struct {
		name string
		call func() (string, error)
	}{
		{"create type", func() (string, error) { return d.CreateTypeSQL("color", []string{"red"}) }},
		{"drop type", func() (string, error) { return d.DropTypeSQL("color") }},
		{"rename type", func() (string, error) { return d.RenameTypeSQL("a", "b") }},
		{"add value", func() (string, error) { return d.AddValueSQL("color", "yellow") }},
		{"alter column type", func() (string, error) { return d.AlterColumnTypeSQL("t", "c", "TEXT") }},
		{"add check", func() (string, error) { return d.AddCheckSQL("t", "c", []string{"red"}) }},
		{"drop check", func() (string, error) { return d.DropCheckSQL("t", "c") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			if !enerr.Is(err, enerr.ErrUnsupportedOperation) {
				t.Errorf("err = %v, want ErrUnsupportedOperation", err)
			}
		})
	}
}

func TestSQLite_QuotingAndPlaceholders(t *testing.T) {
	d := SQLite()

	if got := d.QuoteIdent("color"); got != `"color"` {
		t.Errorf("QuoteIdent = %q", got)
	}
	if got := d.QuoteLiteral("it's"); got != `'it''s'` {
		t.Errorf("QuoteLiteral = %q", got)
	}
	if got := d.Placeholder(5); got != "?" {
		t.Errorf("Placeholder = %q, want ?", got)
	}
	if got := d.ColumnTypeSQL([]string{"red"}); got != "TEXT" {
		t.Errorf("ColumnTypeSQL = %q, want TEXT", got)
	}
}

func TestCheckConstraintName(t *testing.T) {
	if got := CheckConstraintName("orders", "status"); got != "ck_orders_status_enum" {
		t.Errorf("CheckConstraintName = %q", got)
	}
}
