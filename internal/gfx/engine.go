package gfx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gfx-engine/internal/logging"
	"gfx-engine/internal/metrics"
)

// DefaultQueueDepth bounds the request queue when Config.QueueDepth is zero.
// The original engine left the queue unbounded; the bound is explicit here so
// a producer outrunning the single worker gets a synchronous ErrQueueFull
// instead of unobserved memory growth.
const DefaultQueueDepth = 128

// Submission-time errors. Per-dimension generation failures are never
// returned as errors; they are encoded as empty result slots in the job.
var (
	// ErrUnsupportedFormat means the file extension is not in the active
	// provider's supported-format list.
	ErrUnsupportedFormat = errors.New("gfx: unsupported format")
	// ErrQueueFull means the bounded request queue is at capacity.
	ErrQueueFull = errors.New("gfx: request queue full")
	// ErrShuttingDown means the engine has been shut down.
	ErrShuttingDown = errors.New("gfx: engine shutting down")
	// ErrInvalidTarget means the submission target carries no referent.
	ErrInvalidTarget = errors.New("gfx: invalid target")
	// ErrEmptyPath means the submission named no source file.
	ErrEmptyPath = errors.New("gfx: empty path")
	// ErrBadKey means the submitted key is not KeyLength bytes.
	ErrBadKey = errors.New("gfx: key must be 16 bytes")
	// ErrNoAttributes means the submission requested an empty attribute set.
	ErrNoAttributes = errors.New("gfx: no attributes requested")
	// ErrNoResult means a synchronous generation produced no output.
	ErrNoResult = errors.New("gfx: generation produced no result")
)

// workerState is the worker goroutine's explicit state.
type workerState int

const (
	// stateIdle: both queues stable, worker parked on the wake signal.
	stateIdle workerState = iota
	// stateDraining: popping and processing requests one at a time.
	stateDraining
	// stateShuttingDown: terminal; the current job finishes, queued jobs
	// are not drained.
	stateShuttingDown
)

// Config configures an Engine.
type Config struct {
	// Provider is the initial graphics backend. Required.
	Provider Provider

	// FS is the filesystem handed to providers. Defaults to OSFS.
	FS FS

	// QueueDepth bounds the request queue; zero selects DefaultQueueDepth.
	QueueDepth int

	// Notify, if set, is called once per completed job in addition to the
	// Completed channel signal, letting the owning event loop reuse its
	// existing wake primitive.
	Notify func()
}

// Engine owns the job queues, the provider slot, and the worker goroutine,
// and exposes the submission, drain, and synchronous generation API. Create
// one per client session with New.
type Engine struct {
	fs         FS
	queueDepth int
	notify     func()

	slot      *ProviderSlot
	requests  JobQueue
	responses JobQueue

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	completed chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// New returns an engine using initial settings from cfg. The worker
// goroutine starts lazily on the first accepted submission.
func New(cfg Config) (*Engine, error) {
	if cfg.Provider == nil {
		return nil, errors.New("gfx: config requires a provider")
	}
	fsys := cfg.FS
	if fsys == nil {
		fsys = OSFS{}
	}
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Engine{
		fs:         fsys,
		queueDepth: depth,
		notify:     cfg.Notify,
		slot:       NewProviderSlot(cfg.Provider),
		wake:       make(chan struct{}, 1),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		completed:  make(chan struct{}, 1),
	}, nil
}

// Submit validates and enqueues an asynchronous generation request for the
// attributes in attrs, to be attached to target with key available for the
// downstream encryption step. It never blocks: on success the job is queued
// and the worker woken; any error means no job was created.
func (e *Engine) Submit(path string, target Target, key []byte, attrs AttrSet) error {
	if err := e.validate(path, target, key, attrs); err != nil {
		metrics.JobsRejected.WithLabelValues(rejectReason(err)).Inc()
		return err
	}

	if e.requests.Len() >= e.queueDepth {
		metrics.JobsRejected.WithLabelValues("queue_full").Inc()
		return ErrQueueFull
	}

	job := newJob(path, target, key, attrs.Attrs())

	// Push under the engine lock. Shutdown flips stopped under the same lock
	// before it sweeps the queues, so a push that observes stopped == false
	// is always visible to the sweep; a job can never be stranded.
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		job.Release()
		metrics.JobsRejected.WithLabelValues("shutting_down").Inc()
		return ErrShuttingDown
	}
	e.requests.Push(job)
	e.mu.Unlock()
	metrics.JobsSubmitted.Inc()
	metrics.QueueDepth.Set(float64(e.requests.Len()))

	e.startWorker()
	select {
	case e.wake <- struct{}{}:
	default:
	}
	logging.Debug("gfx: queued %s for %s (%d attrs)", path, target, len(job.Attrs))
	return nil
}

func (e *Engine) validate(path string, target Target, key []byte, attrs AttrSet) error {
	e.mu.Lock()
	stopped := e.stopped
	e.mu.Unlock()
	if stopped {
		return ErrShuttingDown
	}
	if path == "" {
		return ErrEmptyPath
	}
	if !target.Valid() {
		return ErrInvalidTarget
	}
	if len(key) != KeyLength {
		return ErrBadKey
	}
	if attrs.Attrs() == nil {
		return ErrNoAttributes
	}
	if !e.IsImage(path) && !e.IsVideo(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrShuttingDown):
		return "shutting_down"
	default:
		return "invalid_input"
	}
}

// Drain non-blockingly pops every job currently in the response queue,
// invokes deliver once per job, then releases the job. It returns the number
// of jobs processed, zero when the queue is empty. Backend errors never
// surface here; they are already encoded per-slot inside each job. Call once
// per event-loop turn to progress delivery.
func (e *Engine) Drain(deliver func(*Job)) int {
	n := 0
	for {
		job := e.responses.Pop()
		if job == nil {
			break
		}
		if deliver != nil {
			deliver(job)
		}
		job.Release()
		n++
	}
	if n > 0 {
		metrics.JobsDelivered.Add(float64(n))
	}
	return n
}

// Completed signals readiness of the response queue: one token becomes
// available after each finished job. The owning event loop can select on it
// instead of polling Drain.
func (e *Engine) Completed() <-chan struct{} { return e.completed }

// IsImage reports whether path looks like an image the active provider can
// decode, judged by extension against a current provider snapshot. A nil
// format list means the provider wants no pre-filtering.
func (e *Engine) IsImage(path string) bool {
	return matchFormat(e.slot.Snapshot().SupportedImageFormats(), path)
}

// IsVideo is IsImage for video formats.
func (e *Engine) IsVideo(path string) bool {
	return matchFormat(e.slot.Snapshot().SupportedVideoFormats(), path)
}

func matchFormat(formats []string, path string) bool {
	if formats == nil {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return false
	}
	for _, f := range formats {
		if f == ext {
			return true
		}
	}
	return false
}

// GenerateSync produces one dimension inline, bypassing both queues. It uses
// the same snapshot discipline, orientation correction, and encode quality
// as the asynchronous path, so the two are behavior-identical for identical
// inputs.
func (e *Engine) GenerateSync(path string, dim Dimension) ([]byte, error) {
	images := e.generate(e.slot.Snapshot(), path, []Dimension{dim})
	if len(images[0]) == 0 {
		return nil, fmt.Errorf("%w: %s at %dx%d", ErrNoResult, path, dim.Width, dim.Height)
	}
	return images[0], nil
}

// Save generates one dimension inline and writes it to destination.
func (e *Engine) Save(path string, dim Dimension, destination string) error {
	buf, err := e.GenerateSync(path, dim)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destination, buf, 0644); err != nil {
		return fmt.Errorf("gfx: write %s: %w", destination, err)
	}
	return nil
}

// SetProvider replaces the graphics backend at runtime. Jobs already in
// flight finish against the snapshot they started with, and a submission
// validated against the old backend may fail per-dimension under the new
// one. Use only if temporary failures are tolerable.
func (e *Engine) SetProvider(p Provider) {
	e.slot.Replace(p)
	metrics.ProviderSwaps.Inc()
	logging.Info("gfx: provider replaced")
}

// Shutdown stops the worker after its current job finishes and discards any
// jobs still sitting in either queue, zeroing their key material. It is
// terminal: later submissions fail with ErrShuttingDown.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	started := e.started
	e.mu.Unlock()

	close(e.quit)
	if started {
		<-e.done
	}

	discarded := 0
	for _, q := range []*JobQueue{&e.requests, &e.responses} {
		for {
			job := q.Pop()
			if job == nil {
				break
			}
			job.Release()
			discarded++
		}
	}
	if discarded > 0 {
		metrics.JobsDiscarded.Add(float64(discarded))
		logging.Debug("gfx: discarded %d queued jobs on shutdown", discarded)
	}
	metrics.QueueDepth.Set(0)
}

func (e *Engine) startWorker() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.loop()
}

// loop is the worker state machine. Exactly one loop goroutine runs per
// engine, so at most one backend invocation is in flight at any time.
func (e *Engine) loop() {
	defer close(e.done)

	state := stateIdle
	for {
		switch state {
		case stateIdle:
			select {
			case <-e.wake:
				state = stateDraining
			case <-e.quit:
				state = stateShuttingDown
			}

		case stateDraining:
			job := e.requests.Pop()
			if job == nil {
				state = stateIdle
				continue
			}
			metrics.QueueDepth.Set(float64(e.requests.Len()))
			e.process(job)
			e.responses.Push(job)
			e.signalCompleted()
			select {
			case <-e.quit:
				state = stateShuttingDown
			default:
			}

		case stateShuttingDown:
			return
		}
	}
}

// process runs one job to completion against a single provider snapshot.
// Result slots mirror the caller's requested order even though dimensions
// are dispatched in descending resolution order.
func (e *Engine) process(job *Job) {
	snap := e.slot.Snapshot()
	dims := job.Dimensions()
	sorted, slots := sortDescending(dims)

	start := time.Now()
	images := e.generate(snap, job.Path, sorted)
	metrics.GenerateDuration.Observe(time.Since(start).Seconds())

	job.Images = make([][]byte, len(dims))
	failed := 0
	for pos, idx := range slots {
		job.Images[idx] = images[pos]
		if len(images[pos]) == 0 {
			failed++
		}
	}
	if failed > 0 {
		metrics.DimensionFailures.Add(float64(failed))
		logging.Debug("gfx: %s finished with %d/%d failed dimensions", job.Path, failed, len(dims))
	}
	metrics.JobsCompleted.Inc()
}

// generate invokes the backend once, containing panics and length
// violations so that no fault crosses the worker boundary: every outcome is
// representable as result slots.
func (e *Engine) generate(p Provider, path string, dims []Dimension) (out [][]byte) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("gfx: backend panic processing %s: %v", path, r)
			out = make([][]byte, len(dims))
		}
	}()

	out = p.Generate(e.fs, path, dims)
	if len(out) != len(dims) {
		logging.Warn("gfx: backend returned %d results for %d dimensions on %s", len(out), len(dims), path)
		fixed := make([][]byte, len(dims))
		copy(fixed, out)
		out = fixed
	}
	return out
}

func (e *Engine) signalCompleted() {
	select {
	case e.completed <- struct{}{}:
	default:
	}
	if e.notify != nil {
		e.notify()
	}
}
