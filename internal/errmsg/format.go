// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Sound operations
	OpSoundPlay    Op = "play sound"
	OpSoundPrepare Op = "prepare sound"
	OpSoundBind    Op = "load bound sound"

	// Pack operations
	OpPackOpen   Op = "open sound pack"
	OpPackImport Op = "import sounds into pack"
	OpPackList   Op = "list sounds"

	// Audio output
	OpAudioInit Op = "initialize audio output"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
