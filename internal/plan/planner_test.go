package plan

import (
	"strings"
	"testing"

	"github.com/hlop3z/enumig/internal/dialect"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/enumset"
	"github.com/hlop3z/enumig/internal/policy"
	"github.com/hlop3z/enumig/internal/state"
)

func colorFrom() enumset.Snapshot {
	return enumset.New("color", "red", "green", "blue")
}

func shirtColumn(p policy.RemovalPolicy) state.ColumnRef {
	return state.ColumnRef{Table: "shirts", Column: "color", Enum: "color", OnRemove: p}
}

func statements(stmts []Statement) []string {
	out := make([]string, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.SQL)
	}
	return out
}

func wantStatements(t *testing.T, phase string, got []Statement, want []string) {
	t.Helper()
	gotSQL := statements(got)
	if len(gotSQL) != len(want) {
		t.Fatalf("%s phase: got %d statements, want %d\ngot: %v", phase, len(gotSQL), len(want), gotSQL)
	}
	for i := range want {
		if gotSQL[i] != want[i] {
			t.Errorf("%s[%d] mismatch\ngot:  %q\nwant: %q", phase, i, gotSQL[i], want[i])
		}
	}
}

// Pure addition on a declared-enum database: one post-action per added
// value, nothing else.
func TestBuildPureAdditionDeclared(t *testing.T) {
	p, err := Build(Request{
		Enum:    "color",
		From:    colorFrom(),
		Add:     enumset.New("", "yellow"),
		Columns: []state.ColumnRef{shirtColumn(policy.Protect())},
	}, dialect.Postgres())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(p.Pre) != 0 {
		t.Errorf("pre = %v, want none", statements(p.Pre))
	}
	if len(p.Data) != 0 {
		t.Errorf("data = %v, want none", p.Data)
	}
	wantStatements(t, "post", p.Post, []string{
		`ALTER TYPE "color" ADD VALUE 'yellow'`,
	})
	if len(p.ScratchTypes) != 0 {
		t.Errorf("scratch types = %v, want none", p.ScratchTypes)
	}
}

// Removal with a set_null column on a declared-enum database: no
// transition type, data migration nulls out rows, and the post phase swaps
// through a temporary type.
func TestBuildRemovalSetNullDeclared(t *testing.T) {
	p, err := Build(Request{
		Enum:    "color",
		From:    colorFrom(),
		Remove:  enumset.New("", "blue"),
		Columns: []state.ColumnRef{shirtColumn(policy.SetNull())},
		Salt:    "s1",
	}, dialect.Postgres())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(p.Pre) != 0 {
		t.Errorf("pre = %v, want none for set_null", statements(p.Pre))
	}

	if len(p.Data) != 1 {
		t.Fatalf("data = %v, want one step", p.Data)
	}
	step := p.Data[0]
	if step.Table != "shirts" || step.Column != "color" || step.Policy.Kind != policy.KindSetNull {
		t.Errorf("data step = %+v", step)
	}
	if len(step.Removed) != 1 || step.Removed[0] != "blue" {
		t.Errorf("removed = %v, want [blue]", step.Removed)
	}

	wantStatements(t, "post", p.Post, []string{
		`CREATE TYPE "color__tmp_s1" AS ENUM ('red', 'green')`,
		`ALTER TABLE "shirts" ALTER COLUMN "color" TYPE "color__tmp_s1" USING "color"::text::"color__tmp_s1"`,
		`DROP TYPE "color"`,
		`ALTER TYPE "color__tmp_s1" RENAME TO "color"`,
	})

	if len(p.ScratchTypes) != 1 || p.ScratchTypes[0] != "color__tmp_s1" {
		t.Errorf("scratch types = %v", p.ScratchTypes)
	}
}

// Removal with a cascade column: the column is widened to a transition
// type before data migration, and the transition type is dropped last.
func TestBuildRemovalCascadeDeclared(t *testing.T) {
	p, err := Build(Request{
		Enum:    "color",
		From:    colorFrom(),
		Remove:  enumset.New("", "blue"),
		Columns: []state.ColumnRef{shirtColumn(policy.Cascade())},
		Salt:    "s1",
	}, dialect.Postgres())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantStatements(t, "pre", p.Pre, []string{
		`CREATE TYPE "color__tr_s1" AS ENUM ('red', 'green', 'blue')`,
		`ALTER TABLE "shirts" ALTER COLUMN "color" TYPE "color__tr_s1" USING "color"::text::"color__tr_s1"`,
	})

	if len(p.Data) != 1 || p.Data[0].Policy.Kind != policy.KindCascade {
		t.Fatalf("data = %v, want one cascade step", p.Data)
	}

	wantStatements(t, "post", p.Post, []string{
		`CREATE TYPE "color__tmp_s1" AS ENUM ('red', 'green')`,
		`ALTER TABLE "shirts" ALTER COLUMN "color" TYPE "color__tmp_s1" USING "color"::text::"color__tmp_s1"`,
		`DROP TYPE "color"`,
		`ALTER TYPE "color__tmp_s1" RENAME TO "color"`,
		`DROP TYPE "color__tr_s1"`,
	})

	if len(p.ScratchTypes) != 2 {
		t.Errorf("scratch types = %v, want transition and temp", p.ScratchTypes)
	}
}

// Transition types appear exactly when the policy requires them.
func TestTransitionTypeOnlyWhenNeeded(t *testing.T) {
	tests := []struct {
		name           string
		col            state.ColumnRef
		wantTransition bool
	}{
		{"protect", shirtColumn(policy.Protect()), false},
		{"set_null", shirtColumn(policy.SetNull()), false},
		{"set_value to survivor", shirtColumn(policy.SetValue("red")), false},
		{"set_default to survivor", shirtColumn(policy.SetDefault("red")), false},
		{"cascade", shirtColumn(policy.Cascade()), true},
		{"set_default to removed", shirtColumn(policy.SetDefault("blue")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(Request{
				Enum:    "color",
				From:    colorFrom(),
				Remove:  enumset.New("", "blue"),
				Columns: []state.ColumnRef{tt.col},
				Salt:    "s1",
			}, dialect.Postgres())
			if err != nil {
				t.Fatalf("Build: %v", err)
			}

			hasTransition := false
			for _, name := range p.ScratchTypes {
				if strings.Contains(name, "__tr_") {
					hasTransition = true
				}
			}
			if hasTransition != tt.wantTransition {
				t.Errorf("transition type present = %v, want %v (scratch: %v)",
					hasTransition, tt.wantTransition, p.ScratchTypes)
			}
		})
	}
}

// Combined add and remove takes the removal branch; the transition type
// holds the union of target and removed values.
func TestBuildAddAndRemove(t *testing.T) {
	p, err := Build(Request{
		Enum:    "color",
		From:    colorFrom(),
		Add:     enumset.New("", "yellow"),
		Remove:  enumset.New("", "blue"),
		Columns: []state.ColumnRef{shirtColumn(policy.Cascade())},
		Salt:    "s1",
	}, dialect.Postgres())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := statements(p.Pre)[0]; got != `CREATE TYPE "color__tr_s1" AS ENUM ('red', 'green', 'yellow', 'blue')` {
		t.Errorf("transition type = %q", got)
	}
	if got := statements(p.Post)[0]; got != `CREATE TYPE "color__tmp_s1" AS ENUM ('red', 'green', 'yellow')` {
		t.Errorf("temp type = %q", got)
	}
}

// Emulated enums with alterable constraints: narrowing re-asserts each
// column's check constraint; no type objects, no transition.
func TestBuildRemovalEmulatedChecks(t *testing.T) {
	p, err := Build(Request{
		Enum:    "color",
		From:    colorFrom(),
		Remove:  enumset.New("", "blue"),
		Columns: []state.ColumnRef{shirtColumn(policy.Cascade())},
		Salt:    "s1",
	}, dialect.PostgresWithChecks())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(p.Pre) != 0 {
		t.Errorf("pre = %v, want none for emulated enums", statements(p.Pre))
	}
	wantStatements(t, "post", p.Post, []string{
		`ALTER TABLE "shirts" DROP CONSTRAINT "ck_shirts_color_enum"`,
		`ALTER TABLE "shirts" ADD CONSTRAINT "ck_shirts_color_enum" CHECK ("color" IN ('red', 'green'))`,
	})
	if len(p.ScratchTypes) != 0 {
		t.Errorf("scratch types = %v, want none", p.ScratchTypes)
	}
}

// SQLite cannot re-assert constraints; the plan carries only data steps
// and a note.
func TestBuildRemovalSQLite(t *testing.T) {
	p, err := Build(Request{
		Enum:    "color",
		From:    colorFrom(),
		Remove:  enumset.New("", "blue"),
		Columns: []state.ColumnRef{shirtColumn(policy.SetValue("red"))},
	}, dialect.SQLite())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(p.Pre) != 0 || len(p.Post) != 0 {
		t.Errorf("pre/post = %v / %v, want none", statements(p.Pre), statements(p.Post))
	}
	if len(p.Data) != 1 {
		t.Errorf("data = %v, want one step", p.Data)
	}
	if len(p.Notes) != 1 {
		t.Errorf("notes = %v, want constraint note", p.Notes)
	}
}

// Inline enum types (MySQL style) regenerate each column's declaration;
// the capability combination is synthetic here, driven through a fake
// dialect.
func TestBuildInlineEnums(t *testing.T) {
	d := &inlineDialect{}

	t.Run("pure addition", func(t *testing.T) {
		p, err := Build(Request{
			Enum:    "color",
			From:    colorFrom(),
			Add:     enumset.New("", "yellow"),
			Columns: []state.ColumnRef{shirtColumn(policy.Protect())},
		}, d)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		wantStatements(t, "post", p.Post, []string{
			"ALTER TABLE `shirts` MODIFY `color` enum('red','green','blue','yellow')",
		})
	})

	t.Run("removal with cascade widens inline", func(t *testing.T) {
		p, err := Build(Request{
			Enum:    "color",
			From:    colorFrom(),
			Remove:  enumset.New("", "blue"),
			Columns: []state.ColumnRef{shirtColumn(policy.Cascade())},
		}, d)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		wantStatements(t, "pre", p.Pre, []string{
			"ALTER TABLE `shirts` MODIFY `color` enum('red','green','blue')",
		})
		wantStatements(t, "post", p.Post, []string{
			"ALTER TABLE `shirts` MODIFY `color` enum('red','green')",
		})
		if len(p.ScratchTypes) != 0 {
			t.Errorf("inline enums need no scratch types, got %v", p.ScratchTypes)
		}
	})
}

func TestBuildValidation(t *testing.T) {
	t.Run("overlapping add and remove", func(t *testing.T) {
		_, err := Build(Request{
			Enum:   "color",
			From:   colorFrom(),
			Add:    enumset.New("", "blue"),
			Remove: enumset.New("", "blue"),
		}, dialect.Postgres())
		if !enerr.Is(err, enerr.ErrAlterInvalid) {
			t.Errorf("err = %v, want ErrAlterInvalid", err)
		}
	})

	t.Run("removing unknown value", func(t *testing.T) {
		_, err := Build(Request{
			Enum:   "color",
			From:   colorFrom(),
			Remove: enumset.New("", "purple"),
		}, dialect.Postgres())
		if !enerr.Is(err, enerr.ErrAlterInvalid) {
			t.Errorf("err = %v, want ErrAlterInvalid", err)
		}
	})

	t.Run("missing enum name", func(t *testing.T) {
		_, err := Build(Request{From: colorFrom()}, dialect.Postgres())
		if !enerr.Is(err, enerr.ErrAlterInvalid) {
			t.Errorf("err = %v, want ErrAlterInvalid", err)
		}
	})
}

func TestBuildEmptyRequest(t *testing.T) {
	p, err := Build(Request{Enum: "color", From: colorFrom()}, dialect.Postgres())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !p.IsEmpty() {
		t.Errorf("plan = %v, want empty", p.SQL())
	}
}

func TestDerivedSaltIsUniquePerApplication(t *testing.T) {
	build := func(salt string) *Plan {
		p, err := Build(Request{
			Enum:    "color",
			From:    colorFrom(),
			Remove:  enumset.New("", "blue"),
			Columns: []state.ColumnRef{shirtColumn(policy.SetNull())},
			Salt:    salt,
		}, dialect.Postgres())
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return p
	}

	// A retry of the same alteration must not reuse scratch names that a
	// previously failed run may have left behind.
	a, b := build(""), build("")
	if a.ScratchTypes[0] == b.ScratchTypes[0] {
		t.Errorf("derived scratch name %q reused across applications", a.ScratchTypes[0])
	}
	if !strings.HasPrefix(a.ScratchTypes[0], "color__tmp_") {
		t.Errorf("scratch name = %q, want enum-derived prefix", a.ScratchTypes[0])
	}
	if len(a.ScratchTypes[0]) != len("color__tmp_")+8 {
		t.Errorf("scratch name = %q, want 8 char salt", a.ScratchTypes[0])
	}

	// An explicit salt pins the names.
	if c, d := build("s1"), build("s1"); c.ScratchTypes[0] != d.ScratchTypes[0] {
		t.Errorf("pinned scratch names differ: %v vs %v", c.ScratchTypes, d.ScratchTypes)
	}
}

// inlineDialect is a synthetic dialect with inline enum column types,
// exercising the HasEnum without RequiresDeclaration branch.
type inlineDialect struct{}

func (d *inlineDialect) Name() string { return "inline" }

func (d *inlineDialect) Capabilities() dialect.Capabilities {
	return dialect.Capabilities{HasEnum: true, TransactionalDDL: false, AlterableConstraints: false}
}

func (d *inlineDialect) QuoteIdent(name string) string { return "`" + name + "`" }

func (d *inlineDialect) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (d *inlineDialect) Placeholder(index int) string { return "?" }

func (d *inlineDialect) CreateTypeSQL(name string, values []string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "inline enums have no type objects")
}

func (d *inlineDialect) DropTypeSQL(name string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "inline enums have no type objects")
}

func (d *inlineDialect) RenameTypeSQL(oldName, newName string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "inline enums have no type objects")
}

func (d *inlineDialect) AddValueSQL(name, value string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "inline enums have no type objects")
}

func (d *inlineDialect) AlterColumnTypeSQL(table, column, typeExpr string) (string, error) {
	return "ALTER TABLE " + d.QuoteIdent(table) + " MODIFY " + d.QuoteIdent(column) + " " + typeExpr, nil
}

func (d *inlineDialect) ColumnTypeSQL(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = d.QuoteLiteral(v)
	}
	return "enum(" + strings.Join(quoted, ",") + ")"
}

func (d *inlineDialect) AddCheckSQL(table, column string, values []string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "inline enums use no check constraints")
}

func (d *inlineDialect) DropCheckSQL(table, column string) (string, error) {
	return "", enerr.New(enerr.ErrUnsupportedOperation, "inline enums use no check constraints")
}
