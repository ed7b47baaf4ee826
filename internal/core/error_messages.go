package core

// error_messages.go maps technical errors to user-facing messages with codes
// that support staff can look up.
//
//	VAL001 - Rule violation (message is the rule text itself)
//	VAL002 - Unknown threshold name
//	VAL003 - Unknown export set
//	DB001  - Duplicate student id or programme name
//	DB002  - Storage failure
//	DB003  - Connection refused
//	DB004  - Timeout
//	NF001  - Student not found
//	IMP001 - Too many imports running
//	IMP002 - Import not found or expired
//	FILE001 - File too large
//	FILE002 - Upload missing the file field
//	ERR000 - Anything else

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is a user-friendly rendering of an error.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Reference code for support
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "No file was uploaded",
			Action:  "Attach a CSV file in the \"file\" field",
			Code:    "FILE002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-facing message. Typed errors are
// matched first; other errors fall back to case-insensitive text patterns.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return UserMessage{Message: ve.Message, Action: "Correct the value and try again", Code: "VAL001"}
	}
	var de *DuplicateKeyError
	if errors.As(err, &de) {
		return UserMessage{
			Message: fmt.Sprintf("A record with ID %q already exists", de.ID),
			Action:  "Use a different ID or update the existing record",
			Code:    "DB001",
		}
	}
	switch {
	case errors.Is(err, ErrUnknownThreshold):
		return UserMessage{Message: "Unknown threshold", Action: "Use at_risk, average or top", Code: "VAL002"}
	case errors.Is(err, ErrUnknownExportSet):
		return UserMessage{Message: "Unknown export set", Action: "Use all, top or at-risk", Code: "VAL003"}
	case errors.Is(err, ErrStudentNotFound):
		return UserMessage{Message: "Student not found", Action: "Check the student ID", Code: "NF001"}
	case errors.Is(err, ErrTooManyImports):
		return UserMessage{Message: "Another import is running", Action: "Wait for it to finish and try again", Code: "IMP001"}
	case errors.Is(err, ErrImportNotFound):
		return UserMessage{Message: "Import not found", Action: "The result may have expired; start a new import", Code: "IMP002"}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	var se *StorageError
	if errors.As(err, &se) {
		return UserMessage{Message: "The student store could not complete the operation", Action: "Please try again or contact support", Code: "DB002"}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
