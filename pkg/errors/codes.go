package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes follow the "<MODULE>_<NNN>" convention.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_005"
	ErrCodeTimeout         ErrorCode = "COMMON_009"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodeIO              ErrorCode = "COMMON_012"
	ErrCodeCancelled       ErrorCode = "COMMON_017"
	ErrCodeConfigInvalid   ErrorCode = "COMMON_018"
	ErrCodeUnknownInternal ErrorCode = "COMMON_000"
)

// Aliases used at call sites.
const (
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")

	// CodeUnknown tells Wrap to inherit the code of the wrapped AppError.
	CodeUnknown = ErrCodeUnknownInternal
)

// Entity extraction (NER) error codes.
const (
	ErrCodeDictionaryInvalid    ErrorCode = "NER_001"
	ErrCodeInvalidThreshold     ErrorCode = "NER_002"
	ErrCodeUnknownPolicy        ErrorCode = "NER_003"
	ErrCodeDictionaryLoadFailed ErrorCode = "NER_004"
	ErrCodeEntityNotLocated     ErrorCode = "NER_005"
	ErrCodeScorerUnsupported    ErrorCode = "NER_006"
)

// ErrorCodeExitStatus maps ErrorCodes to CLI process exit statuses.
// Usage errors exit with 2, everything else with 1.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeBadRequest:    2,
	ErrCodeNotFound:      1,
	ErrCodeTimeout:       1,
	ErrCodeSerialization: 1,
	ErrCodeIO:            1,
	ErrCodeCancelled:     1,
	ErrCodeConfigInvalid: 2,

	ErrCodeDictionaryInvalid:    2,
	ErrCodeInvalidThreshold:     2,
	ErrCodeUnknownPolicy:        2,
	ErrCodeDictionaryLoadFailed: 1,
	ErrCodeEntityNotLocated:     1,
	ErrCodeScorerUnsupported:    2,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeBadRequest:    "bad request",
	ErrCodeNotFound:      "resource not found",
	ErrCodeTimeout:       "operation timed out",
	ErrCodeSerialization: "serialization failed",
	ErrCodeIO:            "i/o error",
	ErrCodeCancelled:     "operation cancelled",
	ErrCodeConfigInvalid: "invalid configuration",

	ErrCodeDictionaryInvalid:    "invalid entity dictionary",
	ErrCodeInvalidThreshold:     "minimum ratio must be an integer in [0, 100]",
	ErrCodeUnknownPolicy:        "unknown extraction policy",
	ErrCodeDictionaryLoadFailed: "failed to load entity dictionary",
	ErrCodeEntityNotLocated:     "matched substring not found in text",
	ErrCodeScorerUnsupported:    "unsupported similarity scorer",
}

// ExitStatusForCode returns the CLI exit status for an ErrorCode.
func ExitStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeExitStatus[code]; ok {
		return status
	}
	return 1
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsUsageError returns true if the ErrorCode was caused by caller input
// rather than a runtime failure.
func IsUsageError(code ErrorCode) bool {
	return ExitStatusForCode(code) == 2
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
