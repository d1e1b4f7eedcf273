package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/enumig/internal/enerr"
)

// FormatError formats an error for CLI display in Cargo/rustc style.
// Structured errors render their code, context, and any scratch-type
// cleanup hint; anything else falls back to a one-liner.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var enErr *enerr.Error
	if errors.As(err, &enErr) {
		return formatStructuredError(enErr)
	}

	return Error("error") + ": " + err.Error() + "\n"
}

func formatStructuredError(err *enerr.Error) string {
	var b strings.Builder

	// First line: error[E2002]: message
	b.WriteString(Error("error"))
	b.WriteString("[")
	b.WriteString(Code(string(err.GetCode())))
	b.WriteString("]: ")
	b.WriteString(err.GetMessage())
	b.WriteString("\n")

	ctx := err.GetContext()
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if k == "scratch_types" || k == "suggestion" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(Dim("="))
		b.WriteString(" ")
		b.WriteString(Note("note"))
		b.WriteString(": ")
		b.WriteString(fmt.Sprintf("%s: %v", k, ctx[k]))
		b.WriteString("\n")
	}

	if hint, ok := ctx["suggestion"]; ok {
		b.WriteString("  ")
		b.WriteString(Dim("="))
		b.WriteString(" ")
		b.WriteString(Warning("help"))
		b.WriteString(": ")
		b.WriteString(fmt.Sprintf("%v", hint))
		b.WriteString("\n")
	}

	if scratch := err.ScratchTypes(); len(scratch) > 0 {
		b.WriteString("  ")
		b.WriteString(Dim("="))
		b.WriteString(" ")
		b.WriteString(Warning("help"))
		b.WriteString(": the database may still hold scratch types: ")
		b.WriteString(strings.Join(scratch, ", "))
		b.WriteString("\n")
	}

	if cause := err.Unwrap(); cause != nil {
		b.WriteString("  ")
		b.WriteString(Dim("caused by"))
		b.WriteString(": ")
		b.WriteString(cause.Error())
		b.WriteString("\n")
	}

	return b.String()
}

// FormatSuccess formats a success message.
func FormatSuccess(msg string) string {
	return Success("ok") + ": " + msg + "\n"
}

// FormatWarning formats a warning message.
func FormatWarning(msg string) string {
	return Warning("warning") + ": " + msg + "\n"
}

// FormatNote formats an informational note.
func FormatNote(msg string) string {
	return Note("note") + ": " + msg + "\n"
}
