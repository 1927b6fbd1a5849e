// Package errors defines stable error codes for anyfix failure modes,
// with suggested fix actions surfaced to the user.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// LintUnavailable indicates the linter command could not be run
	LintUnavailable ErrorCode = "LINT_UNAVAILABLE"
	// LintOutputMalformed indicates linter output could not be parsed
	LintOutputMalformed ErrorCode = "LINT_OUTPUT_MALFORMED"
	// TypecheckUnavailable indicates the type checker command could not be run
	TypecheckUnavailable ErrorCode = "TYPECHECK_UNAVAILABLE"
	// TypecheckTimeout indicates the type checker exceeded its deadline
	TypecheckTimeout ErrorCode = "TYPECHECK_TIMEOUT"
	// BackupUnwritable indicates the run backup directory cannot be created or written
	BackupUnwritable ErrorCode = "BACKUP_UNWRITABLE"
	// RestoreFailed indicates a backup could not be restored byte-for-byte
	RestoreFailed ErrorCode = "RESTORE_FAILED"
	// ConfigInvalid indicates the workspace configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ParserUnavailable indicates tree-sitter parsing is not compiled in
	ParserUnavailable ErrorCode = "PARSER_UNAVAILABLE"
	// RunNotFound indicates the requested campaign run does not exist
	RunNotFound ErrorCode = "RUN_NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
	Tool        string        `json:"tool,omitempty"`
}

// CampaignError represents an anyfix error with code, message, and suggestions
type CampaignError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new CampaignError
func New(code ErrorCode, message string, cause error) *CampaignError {
	return &CampaignError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *CampaignError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CampaignError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *CampaignError) WithDetails(details interface{}) *CampaignError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	LintUnavailable: {
		{
			Type:        RunCommand,
			Command:     "anyfix doctor",
			Safe:        true,
			Description: "Check linter configuration and availability",
		},
		{
			Type:        InstallTool,
			Tool:        "eslint",
			Description: "Install ESLint in the target project",
		},
	},
	TypecheckUnavailable: {
		{
			Type:        RunCommand,
			Command:     "anyfix doctor",
			Safe:        true,
			Description: "Check type checker configuration and availability",
		},
		{
			Type:        InstallTool,
			Tool:        "typescript",
			Description: "Install the TypeScript compiler in the target project",
		},
	},
	TypecheckTimeout: {
		{
			Type:        RunCommand,
			Command:     "anyfix run --max-files=1",
			Safe:        true,
			Description: "Retry with a smaller batch to isolate the slow check",
		},
	},
	BackupUnwritable: {
		{
			Type:        RunCommand,
			Command:     "anyfix init",
			Safe:        true,
			Description: "Recreate the .anyfix workspace directory",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "anyfix init --force",
			Safe:        false,
			Description: "Rewrite .anyfix/config.json with defaults",
		},
	},
	RunNotFound: {
		{
			Type:        RunCommand,
			Command:     "anyfix history",
			Safe:        true,
			Description: "List recorded campaign runs",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
