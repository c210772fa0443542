package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the configured size limit
//	FILE002 - Invalid CSV: The header row could not be read
//	FILE003 - Encoding error: File is not UTF-8 text
//	FILE004 - No file: No file was selected
//	FILE005 - Unreadable file: The file could not be read
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Row skipped: A row did not match the header column count
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: The browser session is gone
//	SES002 - System busy: Too many files being loaded at once
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original error.
//
// Typed errors are matched first with errors.Is / errors.As. Anything else
// falls through to case-insensitive substring patterns, first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum size limit",
		Action:  "Export a smaller date range from the survey form",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Export the responses again as comma-separated values",
		Code:    "FILE002",
	}
	msgEncoding = UserMessage{
		Message: "File contains invalid characters",
		Action:  "Save the file as UTF-8 text",
		Code:    "FILE003",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Choose a CSV export to load",
		Code:    "FILE004",
	}
	msgUnreadable = UserMessage{
		Message: "The file could not be read",
		Action:  "Check the file still exists and try again",
		Code:    "FILE005",
	}
	msgRowSkipped = UserMessage{
		Message: "A row could not be read and was skipped",
		Action:  "Check the row for stray commas or unbalanced quotes",
		Code:    "ROW001",
	}
	msgSessionExpired = UserMessage{
		Message: "Your session has expired",
		Action:  "Reload the page and load the file again",
		Code:    "SES001",
	}
	msgBusy = UserMessage{
		Message: "Too many files are being loaded right now",
		Action:  "Please wait a moment and try again",
		Code:    "SES002",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catches errors that lost their type on the way in, for
// example messages relayed from a client.
var errorPatterns = []errorPattern{
	{pattern: "file too large", msg: msgFileTooLarge},
	{pattern: "request body too large", msg: msgFileTooLarge},
	{pattern: "invalid csv header", msg: msgInvalidCSV},
	{pattern: "encoding error", msg: msgEncoding},
	{pattern: "no file provided", msg: msgNoFile},
	{pattern: "file access", msg: msgUnreadable},
	{pattern: "row decode", msg: msgRowSkipped},
	{pattern: "session not found", msg: msgSessionExpired},
	{pattern: "too many concurrent ingests", msg: msgBusy},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		encErr *EncodingError
		rowErr *RowDecodeError
	)
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return msgFileTooLarge
	case errors.Is(err, ErrNoFile):
		return msgNoFile
	case errors.Is(err, ErrSessionNotFound):
		return msgSessionExpired
	case errors.Is(err, ErrTooManyIngests):
		return msgBusy
	case errors.Is(err, ErrInvalidHeader):
		return msgInvalidCSV
	case errors.As(err, &encErr):
		return msgEncoding
	case errors.As(err, &rowErr):
		return msgRowSkipped
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
