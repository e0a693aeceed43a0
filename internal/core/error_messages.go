// Package core provides the business logic for the Ext Price blend pipeline.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL004 - Missing column: A required column is missing from an uploaded file
//	         Action: Check that the file is the right export and its header row is intact
//	         Matched: *SchemaError, "missing required columns"
//
//	VAL007 - Unknown dataset: The file type is not one of codate, ivrv, arinvoice
//	         Action: Upload the file in the correct field
//	         Patterns: "unknown dataset"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Action: Remove unused sheets or rows and try again
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Invalid workbook: The file could not be read as a spreadsheet
//	          Action: Save the file as .xlsx, .xls or .csv and try again
//	          Patterns: "invalid workbook", "unsupported file format"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Action: Save file as UTF-8 encoding
//	          Patterns: "encoding error"
//
//	FILE004 - No file: A required file was not uploaded
//	          Action: Upload the Codate, IVRV and AR Invoice/Ship files together
//	          Matched: ErrMissingInput, "no file provided"
//
//	FILE005 - Empty file: The uploaded file has no header row
//	          Action: Check the file has data and the right header offset
//	          Patterns: "empty file"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - System busy: Too many runs in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent runs"
//
//	RUN002 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	RUN003 - Request timeout: Request timed out
//	         Action: Try smaller files or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing else matches, including *ProcessingError:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please check the files and try again, or contact support
//
// # Matching
//
// Typed errors (*SchemaError, ErrMissingInput) are checked first with
// errors.As and errors.Is so wrapped and joined errors still map. Remaining
// errors are matched case-insensitively against the pattern list using
// strings.Contains. The first matching pattern wins.
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the run ID and the original error
package core

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

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	missingColumnMessage = UserMessage{
		Message: "A required column is missing from an uploaded file",
		Action:  "Check that the file is the right export and its header row is intact",
		Code:    "VAL004",
	}
	missingInputMessage = UserMessage{
		Message: "A required file was not uploaded",
		Action:  "Upload the Codate, IVRV and AR Invoice/Ship files together",
		Code:    "FILE004",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Validation Errors
	// =========================================================================
	{pattern: "missing required columns", msg: missingColumnMessage},
	{
		pattern: "unknown dataset",
		msg: UserMessage{
			Message: "Unknown file type",
			Action:  "Upload the file in the correct field",
			Code:    "VAL007",
		},
	},

	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Remove unused sheets or rows and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Upload exceeds maximum size limit",
			Action:  "Remove unused sheets or rows and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid workbook",
		msg: UserMessage{
			Message: "The file could not be read as a spreadsheet",
			Action:  "Save the file as .xlsx, .xls or .csv and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "The file format is not supported",
			Action:  "Save the file as .xlsx, .xls or .csv and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{pattern: "no file provided", msg: missingInputMessage},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Check the file has data and the right header offset",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Run Errors
	// =========================================================================
	{
		pattern: "too many concurrent runs",
		msg: UserMessage{
			Message: "System is busy processing other files",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try smaller files or check your connection",
			Code:    "RUN003",
		},
	},

	// =========================================================================
	// Rate Limiting
	// =========================================================================
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
	Action:  "Please check the files and try again, or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// A *SchemaError anywhere in the chain maps to VAL004 with the missing
// columns spelled out in the message. ErrMissingInput maps to FILE004.
// Otherwise the first matching pattern wins, with ERR000 as the fallback.
//
// Example:
//
//	err := ValidateColumns(table, KindIVRV)
//	msg := MapError(err)
//	// msg.Code == "VAL004"
//	// msg.Message == "IVRV file missing required columns: Ext Price or ExtPrice"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var se *SchemaError
	if errors.As(err, &se) {
		msg := missingColumnMessage
		msg.Message = se.Error()
		return msg
	}
	if errors.Is(err, ErrMissingInput) {
		return missingInputMessage
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

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error is not the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
