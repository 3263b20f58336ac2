package app

import (
	"context"

	"github.com/jacktracker/jacktracker/internal/domain"
	"github.com/jacktracker/jacktracker/internal/events"
	"github.com/jacktracker/jacktracker/internal/infra/config"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
)

type Resolver interface {
	// Resolve turns a link into track descriptors via the metadata tool
	Resolve(ctx context.Context, url, downloadDir string) ([]*domain.Track, error)
}

type Processor interface {
	// Plan computes a destination; Prepare creates its directory and reports
	// whether the file is already there
	Plan(track *domain.Track) domain.Target
	Prepare(target domain.Target) (bool, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, track *domain.Track, destPath string, onProgress func(float64)) error
}

type EventHub interface {
	Register(o events.Observer)
	Unregister(id string)
	Broadcast(ev events.Event)
	Count() int
}

// Queue is what the transports need from the orchestrator.
type Queue interface {
	Submit(ctx context.Context, url, downloadDir string) ([]*domain.Track, error)
	Snapshot() []domain.JobSnapshot
	Stats() domain.QueueStats
}

type HistoryReader interface {
	ListHistory(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// Context holds the core environment and shared resources for JackTracker.
// The serve command fills it in dependency order; packages read only the
// fields they need through these interfaces.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	Resolver  Resolver
	Processor Processor
	Fetcher   Fetcher
	Events    EventHub
	Queue     Queue
	History   HistoryReader
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
	}
}
