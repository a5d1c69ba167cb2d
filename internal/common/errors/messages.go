package errors

import (
	stderrors "errors"
	"fmt"
)

// UserMessage maps an error to a short human-readable string for display.
// Pure, no I/O. The raw technical Message is never echoed for Network,
// Service or Configuration kinds, since those often carry upstream error
// text unsuitable for end users; Validation messages are already written for
// users and pass through.
func UserMessage(err error) string {
	var pe *PluginError
	if !stderrors.As(err, &pe) {
		return "An unexpected error occurred. Please try again."
	}

	switch pe.Kind {
	case KindValidation:
		if pe.Field != "" && pe.Message != "" {
			return fmt.Sprintf("Please check the %q field: %s", pe.Field, pe.Message)
		}
		if pe.Message != "" {
			return pe.Message
		}
		return "Some of the provided input is invalid. Please review it and try again."

	case KindNetwork:
		return "A network problem prevented the request from completing. Please check your connection and try again."

	case KindService:
		if pe.Service != "" {
			return fmt.Sprintf("The %s service is currently unavailable. Please try again later.", pe.Service)
		}
		return "A required service is currently unavailable. Please try again later."

	case KindConfiguration:
		if pe.ConfigKey != "" {
			return fmt.Sprintf("A required setting (%s) is missing or invalid. Please review the plugin settings.", pe.ConfigKey)
		}
		return "A required setting is missing or invalid. Please review the plugin settings."

	default:
		return "An unexpected error occurred. Please try again."
	}
}
