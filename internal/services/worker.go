package services

import (
	"context"
	"log"
	"sync"
	"time"

	"alfredoptarigan/vocalize/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(version int)
}

// WorkerOptions sizes the worker pool.
type WorkerOptions struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
}

type worker struct {
	attemptRepo  repositories.AttemptRepository
	pipeline     PipelineService
	jobQueue     chan int
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	attemptRepo repositories.AttemptRepository,
	pipeline PipelineService,
	opts WorkerOptions,
) Worker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 100
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Second
	}
	return &worker{
		attemptRepo:  attemptRepo,
		pipeline:     pipeline,
		jobQueue:     make(chan int, opts.QueueSize),
		concurrency:  opts.Concurrency,
		pollInterval: opts.PollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	// Picks up queued attempts that were never enqueued, e.g. when the queue was full.
	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(version int) {
	select {
	case w.jobQueue <- version:
		log.Printf("📥 Attempt #%d enqueued\n", version)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue attempt #%d\n", version)
	default:
		log.Printf("⚠️  Job queue full, attempt #%d left for the poller\n", version)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			return
		case version := <-w.jobQueue:
			if err := w.pipeline.ProcessAttempt(ctx, version); err != nil {
				log.Printf("❌ Worker #%d failed to process attempt #%d: %v\n", workerID, version, err)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.attemptRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d pending attempts\n", len(pending))
			}

			for _, attempt := range pending {
				w.EnqueueJob(attempt.Version)
			}
		}
	}
}
