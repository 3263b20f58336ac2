package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jacktracker/jacktracker/internal/app"
	"github.com/jacktracker/jacktracker/internal/domain"
	"github.com/labstack/echo/v5"
)

type QueueController struct {
	App *app.Context
}

// Health reports liveness plus queue and observer counts.
func (ctrl *QueueController) Health(c *echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Observers: ctrl.App.Events.Count(),
		Queue:     ctrl.App.Queue.Stats(),
	})
}

// List returns queued jobs followed by active ones.
func (ctrl *QueueController) List(c *echo.Context) error {
	return c.JSON(http.StatusOK, ctrl.App.Queue.Snapshot())
}

// Create resolves and queues a link, the REST twin of the websocket
// request-download message.
func (ctrl *QueueController) Create(c *echo.Context) error {
	var req downloadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "InvalidInput", Message: "Request body must be JSON with a url field."})
	}
	if strings.TrimSpace(req.URL) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "InvalidInput", Message: msgInvalidURL})
	}

	// Resolution keeps going if the client hangs up, same as a websocket submission
	tracks, err := ctrl.App.Queue.Submit(context.WithoutCancel(c.Request().Context()), req.URL, req.DownloadDir)
	if err != nil {
		ctrl.App.Logger.Warn("Submission of %s failed: %v", req.URL, err)
		return c.JSON(statusFor(err), newErrorResponse(err))
	}

	return c.JSON(http.StatusAccepted, submitResponse{Tracks: tracks})
}

type HistoryController struct {
	App *app.Context
}

// List returns finished jobs, newest first.
func (ctrl *HistoryController) List(c *echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "InvalidInput", Message: "limit must be a non-negative integer"})
		}
		limit = n
	}

	entries, err := ctrl.App.History.ListHistory(c.Request().Context(), limit)
	if err != nil {
		ctrl.App.Logger.Error("Listing history: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: domain.ErrorKind(err), Message: "could not load history"})
	}
	return c.JSON(http.StatusOK, entries)
}
