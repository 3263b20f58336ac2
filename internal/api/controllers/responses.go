package controllers

import (
	"errors"
	"net/http"

	"github.com/jacktracker/jacktracker/internal/domain"
)

const (
	msgInvalidURL = "Invalid URL. Please provide a Spotify or YouTube link."
	msgGeneric    = "Failed to process link. Check if it's a valid public URL and try again."
)

// downloadRequest is both the websocket request-download message and the
// REST submission body.
type downloadRequest struct {
	Type        string `json:"type,omitempty"`
	URL         string `json:"url"`
	DownloadDir string `json:"downloadDir,omitempty"`
}

type submitResponse struct {
	Tracks []*domain.Track `json:"tracks"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Observers int               `json:"observers"`
	Queue     domain.QueueStats `json:"queue"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// submissionMessage is the user facing text for a failed submission. Only
// invalid links get a specific hint; tool output stays in the logs.
func submissionMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return msgInvalidURL
	}
	return msgGeneric
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrResolutionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func newErrorResponse(err error) errorResponse {
	return errorResponse{Error: domain.ErrorKind(err), Message: submissionMessage(err)}
}
