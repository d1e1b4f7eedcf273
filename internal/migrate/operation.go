package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/hlop3z/enumig/internal/dialect"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/enumset"
	"github.com/hlop3z/enumig/internal/ident"
	"github.com/hlop3z/enumig/internal/plan"
	"github.com/hlop3z/enumig/internal/policy"
	"github.com/hlop3z/enumig/internal/state"
)

// Operation is one schema change that can be described, validated,
// projected onto the state registry, and executed against a database in
// either direction.
//
// StateForwards mutates reg in place. The database methods receive the
// registries as they stood before and after the state projection; they
// never mutate them.
type Operation interface {
	Describe() string
	Validate() error
	StateForwards(reg *state.Registry) error
	DatabaseForwards(ctx context.Context, exec *Executor, from, to *state.Registry) error
	DatabaseBackwards(ctx context.Context, exec *Executor, from, to *state.Registry) error
}

// -----------------------------------------------------------------------------
// CreateEnum
// -----------------------------------------------------------------------------

// CreateEnum introduces a new enum with an initial value set.
type CreateEnum struct {
	Name   string
	Values []string
}

func (op *CreateEnum) Describe() string {
	return fmt.Sprintf("create enum %s (%s)", op.Name, strings.Join(op.Values, ", "))
}

func (op *CreateEnum) Validate() error {
	if err := ident.ValidName("enum", op.Name); err != nil {
		return err
	}
	if len(op.Values) == 0 {
		return enerr.New(enerr.ErrAlterInvalid, "enum needs at least one value").
			WithEnum(op.Name)
	}
	for _, v := range op.Values {
		if err := ident.ValidValue(v); err != nil {
			return err
		}
	}
	return nil
}

func (op *CreateEnum) StateForwards(reg *state.Registry) error {
	if reg.HasEnum(op.Name) {
		return enerr.New(enerr.ErrStateConflict, "enum already exists").
			WithEnum(op.Name)
	}
	reg.SetEnumSnapshot(op.Name, enumset.New(op.Name, op.Values...))
	return nil
}

func (op *CreateEnum) DatabaseForwards(ctx context.Context, exec *Executor, from, to *state.Registry) error {
	d := exec.Dialect()
	if !d.Capabilities().RequiresDeclaration {
		// Inline and emulated enums materialize when a column binds.
		return nil
	}
	snap, err := to.EnumSnapshot(op.Name)
	if err != nil {
		return err
	}
	sql, err := d.CreateTypeSQL(op.Name, snap.Values())
	if err != nil {
		return err
	}
	return exec.Apply(ctx, &plan.Plan{
		Enum: op.Name,
		To:   snap,
		Post: []plan.Statement{{SQL: sql}},
	})
}

func (op *CreateEnum) DatabaseBackwards(ctx context.Context, exec *Executor, from, to *state.Registry) error {
	return dropDeclaredType(ctx, exec, op.Name)
}

// -----------------------------------------------------------------------------
// RemoveEnum
// -----------------------------------------------------------------------------

// RemoveEnum drops an enum that no column references.
type RemoveEnum struct {
	Name string
}

func (op *RemoveEnum) Describe() string {
	return "remove enum " + op.Name
}

func (op *RemoveEnum) Validate() error {
	return ident.ValidName("enum", op.Name)
}

func (op *RemoveEnum) StateForwards(reg *state.Registry) error {
	return reg.RemoveEnum(op.Name)
}

func (op *RemoveEnum) DatabaseForwards(ctx context.Context, exec *Executor, from, to *state.Registry) error {
	return dropDeclaredType(ctx, exec, op.Name)
}

func (op *RemoveEnum) DatabaseBackwards(ctx context.Context, exec *Executor, from, to *state.Registry) error {
	d := exec.Dialect()
	if !d.Capabilities().RequiresDeclaration {
		return nil
	}
	snap, err := from.EnumSnapshot(op.Name)
	if err != nil {
		return err
	}
	sql, err := d.CreateTypeSQL(op.Name, snap.Values())
	if err != nil {
		return err
	}
	return exec.Apply(ctx, &plan.Plan{
		Enum: op.Name,
		To:   snap,
		Post: []plan.Statement{{SQL: sql}},
	})
}

// -----------------------------------------------------------------------------
// RenameEnum
// -----------------------------------------------------------------------------

// RenameEnum changes an enum's name without touching its values.
type RenameEnum struct {
	Old string
	New string
}

func (op *RenameEnum) Describe() string {
	return fmt.Sprintf("rename enum %s to %s", op.Old, op.New)
}

func (op *RenameEnum) Validate() error {
	if err := ident.ValidName("enum", op.Old); err != nil {
		return err
	}
	if err := ident.ValidName("enum", op.New); err != nil {
		return err
	}
	if op.Old == op.New {
		return enerr.New(enerr.ErrAlterInvalid, "rename to the same name").
			WithEnum(op.Old)
	}
	return nil
}

func (op *RenameEnum) StateForwards(reg *state.Registry) error {
	return reg.RenameEnum(op.Old, op.New)
}

func (op *RenameEnum) DatabaseForwards(ctx context.Context, exec *Executor, from, to *state.Registry) error {
	return renameDeclaredType(ctx, exec, op.Old, op.New)
}

func (op *RenameEnum) DatabaseBackwards(ctx context.Context, exec *Executor, from, to *state.Registry) error {
	return renameDeclaredType(ctx, exec, op.New, op.Old)
}

// -----------------------------------------------------------------------------
// AlterEnum
// -----------------------------------------------------------------------------

// AlterEnum changes an enum's value set, adding values, removing values,
// or both in one operation.
type AlterEnum struct {
	Name         string
	AddValues    []string
	RemoveValues []string

	// OnRemove, when non-nil, overrides every affected column's declared
	// removal policy for this alteration.
	OnRemove *policy.RemovalPolicy

	// Salt scopes the scratch type names for this application. Empty
	// derives one from the alteration.
	Salt string
}

func (op *AlterEnum) Describe() string {
	var parts []string
	if len(op.AddValues) > 0 {
		parts = append(parts, "add "+strings.Join(op.AddValues, ", "))
	}
	if len(op.RemoveValues) > 0 {
		parts = append(parts, "remove "+strings.Join(op.RemoveValues, ", "))
	}
	if len(parts) == 0 {
		parts = append(parts, "no changes")
	}
	return fmt.Sprintf("alter enum %s: %s", op.Name, strings.Join(parts, "; "))
}

func (op *AlterEnum) Validate() error {
	if err := ident.ValidName("enum", op.Name); err != nil {
		return err
	}
	for _, v := range op.AddValues {
		if err := ident.ValidValue(v); err != nil {
			return err
		}
	}
	for _, a := range op.AddValues {
		for _, r := range op.RemoveValues {
			if a == r {
				return enerr.New(enerr.ErrAlterInvalid, "value is both added and removed").
					WithEnum(op.Name).
					With("value", a)
			}
		}
	}
	return nil
}

func (op *AlterEnum) StateForwards(reg *state.Registry) error {
	snap, err := reg.EnumSnapshot(op.Name)
	if err != nil {
		return err
	}
	for _, r := range op.RemoveValues {
		if !snap.Contains(r) {
			return enerr.New(enerr.ErrAlterInvalid, "removed value is not in the current enum").
				WithEnum(op.Name).
				With("value", r)
		}
	}
	// A duplicate addition would be silently absorbed here but then
	// stripped by a later reversal, losing the pre-existing value.
	for _, a := range op.AddValues {
		if snap.Contains(a) {
			return enerr.New(enerr.ErrAlterInvalid, "added value is already in the enum").
				WithEnum(op.Name).
				With("value", a)
		}
	}
	to := snap.
		Union(enumset.New(op.Name, op.AddValues...)).
		Difference(enumset.New("", op.RemoveValues...))
	reg.SetEnumSnapshot(op.Name, to)
	return nil
}

// StateBackwards undoes the state projection of an add-only alteration.
// Alterations that removed values cannot be reversed.
func (op *AlterEnum) StateBackwards(reg *state.Registry) error {
	if len(op.RemoveValues) > 0 {
		return enerr.New(enerr.ErrUnsupportedReversal,
			"cannot reverse an alteration that removed values").
			WithEnum(op.Name)
	}
	snap, err := reg.EnumSnapshot(op.Name)
	if err != nil {
		return err
	}
	reg.SetEnumSnapshot(op.Name, snap.Difference(enumset.New("", op.AddValues...)))
	return nil
}

// Plan computes the execution plan for this alteration without running it,
// for dry-run display and tests.
func (op *AlterEnum) Plan(reg *state.Registry, d dialect.Dialect) (*plan.Plan, error) {
	snap, err := reg.EnumSnapshot(op.Name)
	if err != nil {
		return nil, err
	}
	return plan.Build(plan.Request{
		Enum:     op.Name,
		From:     snap,
		Add:      enumset.New("", op.AddValues...),
		Remove:   enumset.New("", op.RemoveValues...),
		Columns:  reg.ColumnsTypedAs(op.Name),
		Override: op.OnRemove,
		Salt:     op.Salt,
	}, d)
}

func (op *AlterEnum) DatabaseForwards(ctx context.Context, exec *Executor, from, to *state.Registry) error {
	p, err := op.Plan(from, exec.Dialect())
	if err != nil {
		return err
	}
	return exec.Apply(ctx, p)
}

// DatabaseBackwards reverses the alteration. Only additions reverse
// exactly: the added values are removed again under each column's declared
// policy. An alteration that removed values cannot be reversed, because
// rows repaired or deleted by the data migration are unrecoverable.
func (op *AlterEnum) DatabaseBackwards(ctx context.Context, exec *Executor, from, to *state.Registry) error {
	if len(op.RemoveValues) > 0 {
		return enerr.New(enerr.ErrUnsupportedReversal,
			"cannot reverse an alteration that removed values").
			WithEnum(op.Name).
			With("removed", strings.Join(op.RemoveValues, ", "))
	}
	if len(op.AddValues) == 0 {
		return nil
	}

	snap, err := to.EnumSnapshot(op.Name)
	if err != nil {
		return err
	}
	p, err := plan.Build(plan.Request{
		Enum:    op.Name,
		From:    snap,
		Remove:  enumset.New("", op.AddValues...),
		Columns: to.ColumnsTypedAs(op.Name),
		Salt:    op.Salt,
	}, exec.Dialect())
	if err != nil {
		return err
	}
	return exec.Apply(ctx, p)
}

// -----------------------------------------------------------------------------
// Shared helpers
// -----------------------------------------------------------------------------

func dropDeclaredType(ctx context.Context, exec *Executor, name string) error {
	d := exec.Dialect()
	if !d.Capabilities().RequiresDeclaration {
		return nil
	}
	sql, err := d.DropTypeSQL(name)
	if err != nil {
		return err
	}
	return exec.Apply(ctx, &plan.Plan{
		Enum: name,
		Post: []plan.Statement{{SQL: sql}},
	})
}

func renameDeclaredType(ctx context.Context, exec *Executor, oldName, newName string) error {
	d := exec.Dialect()
	if !d.Capabilities().RequiresDeclaration {
		return nil
	}
	sql, err := d.RenameTypeSQL(oldName, newName)
	if err != nil {
		return err
	}
	return exec.Apply(ctx, &plan.Plan{
		Enum: oldName,
		Post: []plan.Statement{{SQL: sql}},
	})
}
