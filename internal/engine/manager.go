package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/jacktracker/jacktracker/internal/app"
	"github.com/jacktracker/jacktracker/internal/domain"
	"github.com/jacktracker/jacktracker/internal/events"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
	"github.com/segmentio/ksuid"
)

type activeJob struct {
	job    *domain.Job
	target domain.Target
}

// fetchResult is what a fetch goroutine hands back to the control loop.
type fetchResult struct {
	active *activeJob
	err    error
}

// QueueManager owns the backlog and the active set. Admission and
// completion only ever happen on the Start goroutine; everything else just
// appends to the backlog and signals it.
type QueueManager struct {
	mu        sync.Mutex
	resolver  app.Resolver
	processor app.Processor
	fetcher   app.Fetcher
	events    app.EventHub
	logger    *logger.Logger
	maxActive int

	backlog []*domain.Job
	active  []*activeJob
	// claims maps a target path to the job currently writing it
	claims map[string]string

	newJobChan chan struct{}
	results    chan fetchResult
	wg         sync.WaitGroup
}

func NewQueueManager(app *app.Context) *QueueManager {
	maxActive := app.Config.Download.MaxConcurrent
	if maxActive < 1 {
		maxActive = 1
	}

	return &QueueManager{
		resolver:   app.Resolver,
		processor:  app.Processor,
		fetcher:    app.Fetcher,
		events:     app.Events,
		logger:     app.Logger.WithPrefix("queue"),
		maxActive:  maxActive,
		claims:     make(map[string]string),
		newJobChan: make(chan struct{}, 1),
		// Every in-flight fetch sends exactly once, so this never blocks
		results: make(chan fetchResult, maxActive),
	}
}

// Submit resolves url, announces the new tracks and queues them. Observers
// get the queue-update before any event about the tracks' jobs.
func (m *QueueManager) Submit(ctx context.Context, url, downloadDir string) ([]*domain.Track, error) {
	tracks, err := m.resolver.Resolve(ctx, url, downloadDir)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks found at %s", domain.ErrResolutionFailed, url)
	}

	m.events.Broadcast(events.NewQueueUpdate(tracks))
	m.Enqueue(tracks)
	return tracks, nil
}

// Enqueue appends a queued job per track, in order, and wakes the loop.
func (m *QueueManager) Enqueue(tracks []*domain.Track) []*domain.Job {
	jobs := make([]*domain.Job, 0, len(tracks))
	for _, t := range tracks {
		jobs = append(jobs, domain.NewJob(ksuid.New().String(), t))
	}

	m.mu.Lock()
	m.backlog = append(m.backlog, jobs...)
	queued := len(m.backlog)
	m.mu.Unlock()

	m.logger.Info("Queued %d track(s), %d waiting", len(jobs), queued)

	// Signal the Start() loop that there is work to do
	select {
	case m.newJobChan <- struct{}{}:
	default:
		// Signal already pending, no need to block
	}

	return jobs
}

// Start runs the control loop until ctx is cancelled. Fetch processes run
// under ctx, so cancelling it also stops them; Start waits for them before
// returning.
func (m *QueueManager) Start(ctx context.Context) {
	for {
		m.dispatch(ctx)

		select {
		case <-m.newJobChan:
		case res := <-m.results:
			m.finish(res)
		case <-ctx.Done():
			m.shutdown()
			return
		}
	}
}

// dispatch admits backlog entries until every slot is taken or nothing
// left in the backlog is admissible.
func (m *QueueManager) dispatch(ctx context.Context) {
	for {
		aj, ok := m.next()
		if !ok {
			return
		}
		m.admit(ctx, aj)
	}
}

// next removes the first backlog job whose target is not claimed, moves it
// to the active set and claims its path. Skipped jobs keep their position.
func (m *QueueManager) next() (*activeJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.active) >= m.maxActive {
		return nil, false
	}

	for i, job := range m.backlog {
		target := m.processor.Plan(job.Track)
		if owner, claimed := m.claims[target.FullPath]; claimed {
			m.logger.Debug("Holding %s: %s is being written by job %s", job.ID, target.FileName, owner)
			continue
		}

		m.backlog = append(m.backlog[:i], m.backlog[i+1:]...)
		aj := &activeJob{job: job, target: target}
		m.active = append(m.active, aj)
		m.claims[target.FullPath] = job.ID
		return aj, true
	}
	return nil, false
}

func (m *QueueManager) admit(ctx context.Context, aj *activeJob) {
	job, target := aj.job, aj.target

	exists, err := m.processor.Prepare(target)
	if err != nil {
		m.logger.Error("Cannot prepare %q: %v", job.Track.TrackName, err)
		m.complete(aj, err)
		return
	}

	if exists {
		m.logger.Info("Skipping %q: %s already exists", job.Track.TrackName, target.FileName)
		m.complete(aj, nil)
		return
	}

	m.mu.Lock()
	err = job.Transition(domain.StateDownloading)
	m.mu.Unlock()
	if err != nil {
		m.logger.Error("%v", err)
		m.complete(aj, err)
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		err := m.fetcher.Fetch(ctx, job.Track, target.FullPath, func(pct float64) {
			m.progress(job, pct)
		})
		m.results <- fetchResult{active: aj, err: err}
	}()
}

func (m *QueueManager) progress(job *domain.Job, pct float64) {
	m.mu.Lock()
	if job.State != domain.StateDownloading {
		m.mu.Unlock()
		return
	}
	pct = job.SetProgress(pct)
	m.mu.Unlock()

	m.events.Broadcast(events.NewProgress(job.Track.ID, pct))
}

func (m *QueueManager) finish(res fetchResult) {
	job := res.active.job
	if res.err != nil {
		m.logger.Error("Download of %q failed after %s: %v", job.Track.TrackName, logger.Since(job.StartedAt), res.err)
	} else {
		m.logger.Info("Downloaded %q in %s", job.Track.TrackName, logger.Since(job.StartedAt))
	}
	m.complete(res.active, res.err)
}

// complete moves an active job to its terminal state, frees its slot and
// claim, and tells observers.
func (m *QueueManager) complete(aj *activeJob, jobErr error) {
	job, target := aj.job, aj.target

	m.mu.Lock()
	to := domain.StateComplete
	if jobErr != nil {
		to = domain.StateFailed
		job.Error = jobErr.Error()
	} else {
		job.FilePath = target.URLPath
		job.FileName = target.FileName
	}
	if err := job.Transition(to); err != nil {
		m.logger.Error("%v", err)
	}
	m.release(aj)
	m.mu.Unlock()

	if jobErr != nil {
		m.events.Broadcast(events.NewJobFailure(job.ID, job.Track, job.Error))
		return
	}
	m.events.Broadcast(events.NewComplete(job.ID, job.Track, target.URLPath, target.FileName))
}

// release must be called with mu held.
func (m *QueueManager) release(aj *activeJob) {
	for i, a := range m.active {
		if a == aj {
			m.active = append(m.active[:i], m.active[i+1:]...)
			break
		}
	}
	if m.claims[aj.target.FullPath] == aj.job.ID {
		delete(m.claims, aj.target.FullPath)
	}
}

func (m *QueueManager) shutdown() {
	m.wg.Wait()
	for {
		select {
		case res := <-m.results:
			m.finish(res)
		default:
			m.mu.Lock()
			dropped := len(m.backlog)
			m.backlog = nil
			m.mu.Unlock()
			if dropped > 0 {
				m.logger.Warn("Shutting down with %d queued job(s) not started", dropped)
			}
			return
		}
	}
}

// Snapshot returns copies of queued jobs in FIFO order followed by the
// active ones in admission order.
func (m *QueueManager) Snapshot() []domain.JobSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.JobSnapshot, 0, len(m.backlog)+len(m.active))
	for _, j := range m.backlog {
		out = append(out, j.Snapshot())
	}
	for _, a := range m.active {
		out = append(out, a.job.Snapshot())
	}
	return out
}

func (m *QueueManager) Stats() domain.QueueStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return domain.QueueStats{
		Queued:        len(m.backlog),
		Active:        len(m.active),
		MaxConcurrent: m.maxActive,
	}
}
