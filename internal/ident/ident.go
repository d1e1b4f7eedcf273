// Package ident validates the SQL identifiers enumig interpolates into DDL:
// enum names, enum values, table names, and column names. Names must be
// snake_case and must not collide with SQL reserved words, so that generated
// statements stay portable between PostgreSQL and SQLite.
package ident

import (
	"regexp"
	"strings"

	"github.com/hlop3z/enumig/internal/enerr"
)

// reservedWords covers the SQL standard plus PostgreSQL and SQLite specifics.
// Scratch type suffixes keep generated names out of this set, so only user
// supplied names need checking.
var reservedWords = map[string]bool{
	"add": true, "all": true, "alter": true, "and": true, "any": true,
	"as": true, "asc": true, "between": true, "by": true, "case": true,
	"check": true, "column": true, "constraint": true, "create": true,
	"cross": true, "current": true, "default": true, "delete": true,
	"desc": true, "distinct": true, "drop": true, "else": true, "end": true,
	"exists": true, "for": true, "foreign": true, "from": true, "full": true,
	"group": true, "having": true, "in": true, "index": true, "inner": true,
	"insert": true, "into": true, "is": true, "join": true, "key": true,
	"left": true, "like": true, "limit": true, "not": true, "null": true,
	"offset": true, "on": true, "or": true, "order": true, "outer": true,
	"primary": true, "references": true, "rename": true, "right": true,
	"select": true, "set": true, "table": true, "then": true, "to": true,
	"union": true, "unique": true, "update": true, "using": true,
	"values": true, "view": true, "when": true, "where": true, "with": true,

	// PostgreSQL
	"analyze": true, "array": true, "begin": true, "cast": true,
	"commit": true, "copy": true, "do": true, "except": true,
	"ilike": true, "intersect": true, "lateral": true, "localtime": true,
	"natural": true, "only": true, "returning": true, "rollback": true,
	"row": true, "savepoint": true, "similar": true, "some": true,
	"truncate": true, "user": true, "vacuum": true, "window": true,

	// SQLite
	"action": true, "after": true, "attach": true, "conflict": true,
	"detach": true, "fail": true, "glob": true, "indexed": true,
	"instead": true, "plan": true, "pragma": true, "raise": true,
	"reindex": true, "temp": true, "temporary": true, "virtual": true,

	// Type names that read as identifiers but invite confusion in DDL.
	"boolean": true, "date": true, "enum": true, "json": true,
	"serial": true, "uuid": true,
}

// snakeCasePattern: lowercase start, lowercase letters, digits, and single
// underscores, no trailing underscore.
var snakeCasePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// maxLength is the PostgreSQL identifier limit. Scratch names append up to
// 15 characters to an enum name, so enum names get a tighter bound.
const (
	maxLength     = 63
	scratchMargin = 15
)

// IsReserved reports whether s is a SQL reserved word, case-insensitively.
func IsReserved(s string) bool {
	return reservedWords[strings.ToLower(s)]
}

// ValidName checks a user supplied identifier. kind names the role of the
// identifier ("enum", "table", "column") and appears in the error context.
func ValidName(kind, name string) error {
	if name == "" {
		return enerr.New(enerr.ErrAlterInvalid, kind+" name is required")
	}
	if !snakeCasePattern.MatchString(name) {
		return enerr.New(enerr.ErrAlterInvalid, kind+" name must be snake_case").
			With(kind, name)
	}
	limit := maxLength
	if kind == "enum" {
		limit = maxLength - scratchMargin
	}
	if len(name) > limit {
		return enerr.New(enerr.ErrAlterInvalid, kind+" name is too long").
			With(kind, name).
			With("limit", limit)
	}
	if IsReserved(name) {
		return enerr.New(enerr.ErrAlterInvalid, kind+" name is a SQL reserved word").
			With(kind, name)
	}
	return nil
}

// ValidValue checks an enum value literal. Values land inside single quoted
// SQL string literals, so the only hard requirements are non-emptiness and
// the absence of quote characters.
func ValidValue(value string) error {
	if value == "" {
		return enerr.New(enerr.ErrAlterInvalid, "enum value cannot be empty")
	}
	if strings.ContainsAny(value, "'\"") {
		return enerr.New(enerr.ErrAlterInvalid, "enum value cannot contain quotes").
			With("value", value)
	}
	return nil
}
