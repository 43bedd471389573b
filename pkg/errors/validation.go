package errors

import (
	"unicode"
)

// MaxPathLength bounds file paths accepted from options and config files.
const MaxPathLength = 4096

// ValidateFilePath checks a user-supplied input or output path. It rejects
// paths that no filesystem call should see: overlong ones and ones carrying
// NUL or other control characters. field names the option in the message.
// An empty path is valid; callers decide whether the option is required.
func ValidateFilePath(field, path string) error {
	if len(path) > MaxPathLength {
		return New(ErrCodeInvalidArgument, "%s is too long (max %d characters)", field, MaxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "%s contains invalid control characters", field)
		}
	}
	return nil
}
