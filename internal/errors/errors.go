// Package errors provides typed errors for penman.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrMissingInput       ErrorCode = "MISSING_INPUT"
	ErrProfileNotFound    ErrorCode = "PROFILE_NOT_FOUND"
	ErrProfileInvalid     ErrorCode = "PROFILE_INVALID"
	ErrExternalCallFailed ErrorCode = "EXTERNAL_CALL_FAILED"
	ErrAuthMissing        ErrorCode = "AUTH_MISSING"
	ErrConfigInvalid      ErrorCode = "CONFIG_INVALID"
	ErrToneInvalid        ErrorCode = "TONE_INVALID"
	ErrStoreFailed        ErrorCode = "STORE_FAILED"
	ErrGitHubAuthFailed   ErrorCode = "GITHUB_AUTH_FAILED"
	ErrGitHubFetchFailed  ErrorCode = "GITHUB_FETCH_FAILED"
	ErrInvalidRepo        ErrorCode = "INVALID_REPO"
)

// PenmanError represents a typed error with user-friendly hints.
type PenmanError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

func (e *PenmanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PenmanError) Unwrap() error {
	return e.Cause
}

// HintText returns the hint. The CLI looks for this method when printing errors.
func (e *PenmanError) HintText() string {
	return e.Hint
}

// New creates a new PenmanError.
func New(code ErrorCode, message, hint string) *PenmanError {
	return &PenmanError{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// Wrap creates a new PenmanError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *PenmanError {
	return &PenmanError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// Is reports whether any error in err's chain is a PenmanError with the given code.
func Is(err error, code ErrorCode) bool {
	var pe *PenmanError
	if stderrors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// MissingInput returns the guard rejection error for the generation flow.
func MissingInput(reason string) *PenmanError {
	return &PenmanError{
		Code:    ErrMissingInput,
		Message: reason,
		Hint:    "Please enter at least 2 valid posts and a prompt, or select a saved profile.",
	}
}

// ProfileNotFound returns an error for a profile with no backing entry.
func ProfileNotFound(name string, cause error) *PenmanError {
	return &PenmanError{
		Code:    ErrProfileNotFound,
		Message: fmt.Sprintf("profile not found: %s", name),
		Hint:    "Run `penman profiles list` to see saved profiles",
		Cause:   cause,
	}
}

// ProfileInvalid returns an error for a stored profile that cannot be decoded.
func ProfileInvalid(name string, cause error) *PenmanError {
	return &PenmanError{
		Code:    ErrProfileInvalid,
		Message: fmt.Sprintf("profile %s is not a valid style document", name),
		Hint:    `Profile files must contain {"style": "..."}`,
		Cause:   cause,
	}
}

// ExternalCallFailed returns an error for any failure of the language model call.
func ExternalCallFailed(provider, reason string, cause error) *PenmanError {
	return &PenmanError{
		Code:    ErrExternalCallFailed,
		Message: fmt.Sprintf("%s request failed: %s", provider, reason),
		Hint:    "Check your API key, network connection, and quota",
		Cause:   cause,
	}
}

// AuthMissing returns an error when the provider credential is not set.
func AuthMissing(provider, envVar string) *PenmanError {
	return &PenmanError{
		Code:    ErrAuthMissing,
		Message: fmt.Sprintf("%s API key not set", provider),
		Hint:    fmt.Sprintf("Set the %s environment variable", envVar),
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *PenmanError {
	return &PenmanError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		Hint:    "Check your config file at ~/.config/penman/config.yaml",
	}
}

// ToneInvalid returns an error for an unknown tone name.
func ToneInvalid(name string, valid []string) *PenmanError {
	return &PenmanError{
		Code:    ErrToneInvalid,
		Message: fmt.Sprintf("unknown tone: %s", name),
		Hint:    fmt.Sprintf("Valid tones: %s", strings.Join(valid, ", ")),
	}
}

// StoreFailed returns an error for a profile store backend failure.
func StoreFailed(op string, cause error) *PenmanError {
	return &PenmanError{
		Code:    ErrStoreFailed,
		Message: fmt.Sprintf("profile store %s failed", op),
		Cause:   cause,
	}
}

// GitHubAuthFailed returns an error for authentication failures.
func GitHubAuthFailed(cause error) *PenmanError {
	return &PenmanError{
		Code:    ErrGitHubAuthFailed,
		Message: "GitHub authentication failed",
		Hint:    "Run `gh auth login` or set PENMAN_GITHUB_TOKEN environment variable",
		Cause:   cause,
	}
}

// GitHubFetchFailed returns an error for fetch failures.
func GitHubFetchFailed(repo string, cause error) *PenmanError {
	return &PenmanError{
		Code:    ErrGitHubFetchFailed,
		Message: fmt.Sprintf("failed to fetch from %s", repo),
		Hint:    "Check that the repository exists and you have access",
		Cause:   cause,
	}
}

// InvalidRepo returns an error for malformed repo strings.
func InvalidRepo(repo string) *PenmanError {
	return &PenmanError{
		Code:    ErrInvalidRepo,
		Message: fmt.Sprintf("invalid repository format: %s", repo),
		Hint:    "Use format: github.com/owner/repo or owner/repo",
	}
}
