package script

import (
	"errors"
	"fmt"
)

// ContentError marks broken build-time authored content: malformed
// action records, unknown kinds, dangling character references. These
// are not recoverable at runtime; the player stops instead of silently
// degrading the narrative.
type ContentError struct {
	Detail string
}

func (e *ContentError) Error() string { return "script content: " + e.Detail }

// Contentf builds a ContentError with a formatted detail.
func Contentf(format string, args ...interface{}) error {
	return &ContentError{Detail: fmt.Sprintf(format, args...)}
}

// IsContentError reports whether err is (or wraps) a ContentError.
func IsContentError(err error) bool {
	var ce *ContentError
	return errors.As(err, &ce)
}
