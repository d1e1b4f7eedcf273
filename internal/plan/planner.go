package plan

import (
	"github.com/hlop3z/enumig/internal/dialect"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/enumset"
	"github.com/hlop3z/enumig/internal/policy"
	"github.com/hlop3z/enumig/internal/state"
)

// Request describes one alteration to plan.
type Request struct {
	Enum   string
	From   enumset.Snapshot
	Add    enumset.Snapshot
	Remove enumset.Snapshot

	// Columns lists every column typed with the enum, recomputed for
	// this alteration.
	Columns []state.ColumnRef

	// Override, when non-nil, replaces every column's declared removal
	// policy for this alteration.
	Override *policy.RemovalPolicy

	// Salt scopes scratch type names to this migration application.
	// Empty means derive one from the alteration itself.
	Salt string
}

// Build computes the execution plan for an alteration. Only one top-level
// branch fires per invocation: removal (with or without additions) or pure
// addition. An empty request yields an empty plan.
func Build(req Request, d dialect.Dialect) (*Plan, error) {
	if req.Enum == "" {
		return nil, enerr.New(enerr.ErrAlterInvalid, "enum name is required")
	}
	for _, v := range req.Add.Values() {
		if req.Remove.Contains(v) {
			return nil, enerr.New(enerr.ErrAlterInvalid, "value is both added and removed").
				WithEnum(req.Enum).
				With("value", v)
		}
	}
	for _, v := range req.Remove.Values() {
		if !req.From.Contains(v) {
			return nil, enerr.New(enerr.ErrAlterInvalid, "removed value is not in the current enum").
				WithEnum(req.Enum).
				With("value", v)
		}
	}

	to := req.From.Union(req.Add).Difference(req.Remove)
	p := &Plan{
		Enum: req.Enum,
		From: req.From,
		To:   to,
	}

	salt := req.Salt
	if salt == "" {
		salt = deriveSalt(req.Enum, req.From, to)
	}

	switch {
	case req.Remove.Len() > 0:
		if err := buildRemoval(p, req, salt, d); err != nil {
			return nil, err
		}
	case req.Add.Len() > 0:
		if err := buildAddition(p, req, d); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// buildRemoval plans an alteration that removes values, possibly adding
// others at the same time.
//
// Ordering is fixed: pre-actions widen columns that may legally hold a
// removed value during the swap; data migration repairs or rejects live
// rows; post-actions narrow every column to the target type and clean up
// scratch types. Within the post phase, narrowing precedes the drop and
// rename of type objects, so no column ever references a dangling name.
func buildRemoval(p *Plan, req Request, salt string, d dialect.Dialect) error {
	caps := d.Capabilities()
	removed := req.Remove.Values()

	// Resolve every column's effective policy before planning any DDL.
	// A set_default policy without an explicit value takes the column's
	// declared default.
	var transitionCols []state.ColumnRef
	for _, col := range req.Columns {
		declared := withColumnDefault(col.OnRemove, col.Default)
		var override *policy.RemovalPolicy
		if req.Override != nil {
			o := withColumnDefault(*req.Override, col.Default)
			override = &o
		}
		effective, needsTransition, err := policy.Resolve(declared, req.Remove, override)
		if err != nil {
			return err
		}
		p.Data = append(p.Data, DataStep{
			Table:   col.Table,
			Column:  col.Column,
			Policy:  effective,
			Removed: removed,
		})
		if needsTransition {
			transitionCols = append(transitionCols, col)
		}
	}

	// Transitional widening keeps affected columns valid while their data
	// still holds removed values. Emulated enums are plain text and need
	// no widening.
	transitionName := TransitionTypeName(req.Enum, salt)
	useTransition := len(transitionCols) > 0 && caps.HasEnum
	if useTransition {
		transition := p.To.Union(req.Remove)
		if caps.RequiresDeclaration {
			sql, err := d.CreateTypeSQL(transitionName, transition.Values())
			if err != nil {
				return err
			}
			p.Pre = append(p.Pre, Statement{SQL: sql})
			p.ScratchTypes = append(p.ScratchTypes, transitionName)
		}
		for _, col := range transitionCols {
			typeExpr := d.ColumnTypeSQL(transition.Values())
			if caps.RequiresDeclaration {
				typeExpr = d.QuoteIdent(transitionName)
			}
			sql, err := d.AlterColumnTypeSQL(col.Table, col.Column, typeExpr)
			if err != nil {
				return err
			}
			p.Pre = append(p.Pre, Statement{SQL: sql})
		}
	}

	// Post phase: narrow every column to the target value set.
	tempName := TempTypeName(req.Enum, salt)
	switch {
	case caps.HasEnum && caps.RequiresDeclaration:
		// Swap through a temporary type: create it, retype every column,
		// then replace the original name. At no instant does a column
		// reference a dropped type.
		sql, err := d.CreateTypeSQL(tempName, p.To.Values())
		if err != nil {
			return err
		}
		p.Post = append(p.Post, Statement{SQL: sql})
		p.ScratchTypes = append(p.ScratchTypes, tempName)

		for _, col := range req.Columns {
			sql, err := d.AlterColumnTypeSQL(col.Table, col.Column, d.QuoteIdent(tempName))
			if err != nil {
				return err
			}
			p.Post = append(p.Post, Statement{SQL: sql})
		}

		dropSQL, err := d.DropTypeSQL(req.Enum)
		if err != nil {
			return err
		}
		p.Post = append(p.Post, Statement{SQL: dropSQL})

		renameSQL, err := d.RenameTypeSQL(tempName, req.Enum)
		if err != nil {
			return err
		}
		p.Post = append(p.Post, Statement{SQL: renameSQL})

	case caps.HasEnum:
		// Inline enum types: regenerate each column's declaration.
		for _, col := range req.Columns {
			sql, err := d.AlterColumnTypeSQL(col.Table, col.Column, d.ColumnTypeSQL(p.To.Values()))
			if err != nil {
				return err
			}
			p.Post = append(p.Post, Statement{SQL: sql})
		}

	default:
		// No type objects exist; narrowing re-asserts the constraint.
		if err := reassertConstraints(p, req.Columns, d); err != nil {
			return err
		}
	}

	if useTransition && caps.RequiresDeclaration {
		sql, err := d.DropTypeSQL(transitionName)
		if err != nil {
			return err
		}
		p.Post = append(p.Post, Statement{SQL: sql})
	}

	return nil
}

// buildAddition plans a pure addition. Existing data cannot reference a
// value that did not previously exist, so there are no pre-actions and no
// data migration.
func buildAddition(p *Plan, req Request, d dialect.Dialect) error {
	caps := d.Capabilities()

	switch {
	case caps.RequiresDeclaration:
		for _, v := range req.Add.Values() {
			sql, err := d.AddValueSQL(req.Enum, v)
			if err != nil {
				return err
			}
			p.Post = append(p.Post, Statement{SQL: sql})
		}

	case caps.HasEnum:
		// One post-action per affected column, each regenerating that
		// column's full type declaration with the added values.
		for _, col := range req.Columns {
			sql, err := d.AlterColumnTypeSQL(col.Table, col.Column, d.ColumnTypeSQL(p.To.Values()))
			if err != nil {
				return err
			}
			p.Post = append(p.Post, Statement{SQL: sql})
		}

	default:
		if err := reassertConstraints(p, req.Columns, d); err != nil {
			return err
		}
	}

	return nil
}

// withColumnDefault fills a set_default policy's value from the column's
// declared default when no explicit value was given.
func withColumnDefault(p policy.RemovalPolicy, columnDefault string) policy.RemovalPolicy {
	if p.Kind == policy.KindSetDefault && p.Value == "" {
		p.Value = columnDefault
	}
	return p
}

// reassertConstraints regenerates each column's check constraint to match
// the target value set, on dialects whose constraints can be altered.
// SQLite cannot; the plan records that enforcement falls to data migration.
func reassertConstraints(p *Plan, cols []state.ColumnRef, d dialect.Dialect) error {
	caps := d.Capabilities()
	if !caps.AlterableConstraints {
		if len(cols) > 0 {
			p.Notes = append(p.Notes,
				"dialect cannot alter CHECK constraints; column value sets are enforced by data migration only")
		}
		return nil
	}

	for _, col := range cols {
		dropSQL, err := d.DropCheckSQL(col.Table, col.Column)
		if err != nil {
			return err
		}
		p.Post = append(p.Post, Statement{SQL: dropSQL})

		addSQL, err := d.AddCheckSQL(col.Table, col.Column, p.To.Values())
		if err != nil {
			return err
		}
		p.Post = append(p.Post, Statement{SQL: addSQL})
	}
	return nil
}
