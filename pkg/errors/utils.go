package errors

import (
	"fmt"
	"strings"
)

// Helper to check if an error is of our Error type
func IsPgbindError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// Helper to extract context from our errors
func GetContext(err error) map[string]string {
	if bindErr, ok := err.(*Error); ok {
		return bindErr.Context
	}
	return nil
}

// Helper to get error code
func GetCode(err error) string {
	if bindErr, ok := err.(*Error); ok {
		return bindErr.Code.String()
	}
	return ""
}

// Helper to format error for logging
func FormatError(err error) string {
	if bindErr, ok := err.(*Error); ok {
		var parts []string
		parts = append(parts, fmt.Sprintf("Code: %s", bindErr.Code))
		parts = append(parts, fmt.Sprintf("Message: %s", bindErr.Message))

		if bindErr.Query != "" {
			parts = append(parts, fmt.Sprintf("Query: %s", bindErr.Query))
		}

		if bindErr.Position != PositionUnknown {
			parts = append(parts, fmt.Sprintf("Position: %d", bindErr.Position))
		}

		if len(bindErr.Context) > 0 {
			parts = append(parts, "Context:")
			for k, v := range bindErr.Context {
				parts = append(parts, fmt.Sprintf("  %s: %v", k, v))
			}
		}

		if bindErr.Cause != nil {
			parts = append(parts, fmt.Sprintf("Cause: %v", bindErr.Cause))
		}

		return strings.Join(parts, "\n")
	}
	return err.Error()
}

// AsError converts any error to the internal Error format. Existing
// *Error values are returned as-is; anything else is wrapped in a
// generic internal error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	if internalErr, ok := err.(*Error); ok {
		return internalErr
	}

	return New(CommonInternal, err.Error(), err)
}
