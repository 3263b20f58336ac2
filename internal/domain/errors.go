package domain

import "errors"

// ErrInvalidInput indicates a link that matches no supported source
var ErrInvalidInput = errors.New("invalid input")

// ErrResolutionFailed indicates the metadata tool produced no usable records
var ErrResolutionFailed = errors.New("resolution failed")

// ErrConfiguration indicates a job whose fetch tool is unknown
var ErrConfiguration = errors.New("configuration error")

// ErrDownloadFailed indicates a nonzero exit or a missing output file
var ErrDownloadFailed = errors.New("download failed")

// ErrorKind names the taxonomy bucket of err for logs and API bodies.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrResolutionFailed):
		return "ResolutionFailed"
	case errors.Is(err, ErrConfiguration):
		return "ConfigurationError"
	case errors.Is(err, ErrDownloadFailed):
		return "DownloadFailed"
	default:
		return "Internal"
	}
}
