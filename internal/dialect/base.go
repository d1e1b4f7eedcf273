package dialect

// Shared helper functions used by all dialect implementations.

import "strings"

// quoteIdentDoubleQuote quotes an identifier with double quotes,
// escaping embedded quotes by doubling.
func quoteIdentDoubleQuote(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// quoteLiteralSingleQuote quotes a string literal with single quotes,
// escaping embedded quotes by doubling.
func quoteLiteralSingleQuote(value string) string {
	escaped := strings.ReplaceAll(value, "'", "''")
	return "'" + escaped + "'"
}

// buildAddCheckSQL generates the ADD CONSTRAINT ... CHECK (col IN (...))
// statement shared by dialects with alterable constraints.
func buildAddCheckSQL(table, column string, values []string, quoteIdent, quoteLiteral func(string) string) string {
	var b strings.Builder

	b.WriteString("ALTER TABLE ")
	b.WriteString(quoteIdent(table))
	b.WriteString(" ADD CONSTRAINT ")
	b.WriteString(quoteIdent(CheckConstraintName(table, column)))
	b.WriteString(" CHECK (")
	b.WriteString(quoteIdent(column))
	b.WriteString(" IN (")
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteLiteral(v))
	}
	b.WriteString("))")

	return b.String()
}
