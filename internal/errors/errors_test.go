package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := stderrors.New("exec: \"npx\": executable file not found")
	err := New(LintUnavailable, "linter invocation failed", cause)

	msg := err.Error()
	if !strings.Contains(msg, "LINT_UNAVAILABLE") {
		t.Errorf("Error() missing code: %q", msg)
	}
	if !strings.Contains(msg, "executable file not found") {
		t.Errorf("Error() missing cause: %q", msg)
	}
}

func TestErrorWithoutCause(t *testing.T) {
	err := New(ConfigInvalid, "unsupported config version", nil)
	want := "[CONFIG_INVALID] unsupported config version"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(InternalError, "wrapped", cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is did not find the cause")
	}
}

func TestSuggestedFixes(t *testing.T) {
	err := New(BackupUnwritable, "cannot create backup dir", nil)
	if len(err.SuggestedFixes) == 0 {
		t.Fatal("expected suggested fixes for BACKUP_UNWRITABLE")
	}
	if err.SuggestedFixes[0].Command != "anyfix init" {
		t.Errorf("unexpected fix command: %q", err.SuggestedFixes[0].Command)
	}

	if fixes := GetSuggestedFixes(InternalError); fixes != nil {
		t.Errorf("expected no fixes for INTERNAL_ERROR, got %v", fixes)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(RestoreFailed, "checksum mismatch", nil).WithDetails(map[string]string{
		"file": "src/app.ts",
	})
	details, ok := err.Details.(map[string]string)
	if !ok || details["file"] != "src/app.ts" {
		t.Errorf("details not preserved: %v", err.Details)
	}
}
