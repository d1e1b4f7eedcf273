package enerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrStateNotFound, "enum does not exist")

	if err.GetCode() != ErrStateNotFound {
		t.Errorf("code = %q, want %q", err.GetCode(), ErrStateNotFound)
	}
	if err.GetMessage() != "enum does not exist" {
		t.Errorf("message = %q, want %q", err.GetMessage(), "enum does not exist")
	}
	if !strings.HasPrefix(err.Error(), "[E1002] enum does not exist") {
		t.Errorf("Error() = %q, want [E1002] prefix", err.Error())
	}
}

func TestErrorContext(t *testing.T) {
	err := New(ErrIntegrity, "protected column references removed value").
		WithEnum("order_status").
		WithTable("orders").
		WithColumn("status")

	out := err.Error()

	// Context keys render in sorted order
	wantLines := []string{
		"[E2002] protected column references removed value",
		"  column: status",
		"  enum: order_status",
		"  table: orders",
	}
	if out != strings.Join(wantLines, "\n") {
		t.Errorf("Error() =\n%s\nwant:\n%s", out, strings.Join(wantLines, "\n"))
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrSQLConnection, cause, "failed to connect")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "cause: connection refused") {
		t.Errorf("Error() = %q, want cause line", err.Error())
	}
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(ErrSQLExecution, nil, "no cause")
	if err.Unwrap() != nil {
		t.Error("Wrap(nil) should have no cause")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := New(ErrUnsupportedReversal, "cannot reverse value removal")

	if !errors.Is(err, New(ErrUnsupportedReversal, "different message")) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(err, New(ErrIntegrity, "cannot reverse value removal")) {
		t.Error("errors with different codes should not match")
	}
}

func TestIsHelper(t *testing.T) {
	err := New(ErrCapability, "dialect has no declared enum types")

	if !Is(err, ErrCapability) {
		t.Error("Is should match the error code")
	}
	if Is(err, ErrSQLExecution) {
		t.Error("Is should not match a different code")
	}
	if Is(nil, ErrCapability) {
		t.Error("Is(nil) should be false")
	}
}

func TestGetErrorCodeThroughWrapping(t *testing.T) {
	inner := New(ErrIntegrity, "rows reference removed value")
	outer := fmt.Errorf("alteration failed: %w", inner)

	if GetErrorCode(outer) != ErrIntegrity {
		t.Errorf("GetErrorCode = %q, want %q", GetErrorCode(outer), ErrIntegrity)
	}
	if !HasCode(outer) {
		t.Error("HasCode should see the wrapped code")
	}
	if HasCode(fmt.Errorf("plain")) {
		t.Error("plain errors have no code")
	}
}

func TestScratchTypes(t *testing.T) {
	err := New(ErrTransitionalState, "alteration failed mid-sequence").
		WithScratchType("order_status__tmp_1").
		WithScratchType("order_status__tr_1")

	got := err.ScratchTypes()
	if len(got) != 2 || got[0] != "order_status__tmp_1" || got[1] != "order_status__tr_1" {
		t.Errorf("ScratchTypes = %v", got)
	}
}
