package generation

import (
	"errors"
	"io/fs"
	"syscall"
)

// Describe renders err as a short sentence suitable for an end user.
// Unknown errors fall back to their own message.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, fs.ErrPermission) {
		return "Permission denied. Try choosing a different output location."
	}

	if errors.Is(err, syscall.ENOSPC) {
		return "The disk is full. Free some space and try again."
	}

	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Kind {
	case KindInvalidRequest:
		return "Invalid " + e.Field + ": " + e.Reason + "."
	case KindIconDecode:
		return "Failed to process the icon image. Please try a different image (PNG recommended)."
	case KindTemplateMissing:
		return "The application template is missing or damaged. Please reinstall WebBox."
	case KindPermissionPreservation:
		return "The output file system does not keep executable permissions. Try a different location."
	case KindConfigWrite:
		return "Failed to write the app configuration. Please try again."
	case KindPathNotFound:
		return "The app could not be found. It may have been moved or deleted."
	case KindLaunchFailed:
		return "The system refused to open the app."
	case KindCanceled:
		return "Generation was canceled."
	case KindIO:
		return "A file operation failed: " + e.Error()
	default:
		return e.Error()
	}
}
