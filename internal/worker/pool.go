package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrPoolStopped is returned when submitting to a stopped pool
	ErrPoolStopped = errors.New("worker pool is shutting down")
	// ErrQueueFull is returned by Submit when no queue slot is free
	ErrQueueFull = errors.New("task queue is full")
	// ErrTaskTimeout is the result error of a task exceeding its deadline
	ErrTaskTimeout = errors.New("task timeout")
)

// Task represents a unit of work to be processed
type Task interface {
	Execute(ctx context.Context) (interface{}, error)
	GetID() string
}

// TaskResult represents the result of task execution
type TaskResult struct {
	TaskID    string
	Success   bool
	Error     error
	Duration  time.Duration
	Result    interface{}
	Timestamp time.Time
}

type job struct {
	task Task
	done chan TaskResult
}

// WorkerPool manages a pool of workers for concurrent task processing
type WorkerPool struct {
	ctx       context.Context
	cancel    context.CancelFunc
	workers   int
	taskQueue chan job
	wg        sync.WaitGroup

	// Statistics
	totalTasks     int64
	completedTasks int64
	failedTasks    int64
	avgDuration    time.Duration
	mutex          sync.RWMutex

	// Lifecycle
	stateMutex sync.RWMutex
	started    bool
	stopped    bool

	// Configuration
	queueSize   int
	taskTimeout time.Duration
}

// NewWorkerPool creates a new worker pool. Zero workers means one per CPU;
// a zero task timeout disables the per-task deadline.
func NewWorkerPool(workers, queueSize int, taskTimeout time.Duration) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		ctx:         ctx,
		cancel:      cancel,
		workers:     workers,
		taskQueue:   make(chan job, queueSize),
		queueSize:   queueSize,
		taskTimeout: taskTimeout,
	}
}

// Start starts the worker pool
func (wp *WorkerPool) Start() {
	wp.stateMutex.Lock()
	defer wp.stateMutex.Unlock()

	if wp.started || wp.stopped {
		return
	}
	wp.started = true

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop drains queued tasks and waits for the workers to exit
func (wp *WorkerPool) Stop() {
	wp.stateMutex.Lock()
	if wp.stopped {
		wp.stateMutex.Unlock()
		return
	}
	wp.stopped = true
	close(wp.taskQueue)
	wp.stateMutex.Unlock()

	wp.wg.Wait()
	wp.cancel()
}

// Submit queues a task without blocking. The returned channel receives
// exactly one result.
func (wp *WorkerPool) Submit(task Task) (<-chan TaskResult, error) {
	wp.stateMutex.RLock()
	defer wp.stateMutex.RUnlock()

	if wp.stopped {
		return nil, ErrPoolStopped
	}

	j := job{task: task, done: make(chan TaskResult, 1)}
	select {
	case wp.taskQueue <- j:
		atomic.AddInt64(&wp.totalTasks, 1)
		return j.done, nil
	default:
		return nil, ErrQueueFull
	}
}

// SubmitWait queues a task, blocking until a slot frees up or ctx is done.
func (wp *WorkerPool) SubmitWait(ctx context.Context, task Task) (<-chan TaskResult, error) {
	wp.stateMutex.RLock()
	defer wp.stateMutex.RUnlock()

	if wp.stopped {
		return nil, ErrPoolStopped
	}

	j := job{task: task, done: make(chan TaskResult, 1)}
	select {
	case wp.taskQueue <- j:
		atomic.AddInt64(&wp.totalTasks, 1)
		return j.done, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetStats returns worker pool statistics
func (wp *WorkerPool) GetStats() WorkerStats {
	wp.mutex.RLock()
	defer wp.mutex.RUnlock()

	total := atomic.LoadInt64(&wp.totalTasks)
	completed := atomic.LoadInt64(&wp.completedTasks)
	failed := atomic.LoadInt64(&wp.failedTasks)

	var successRate float64
	if total > 0 {
		successRate = float64(completed) / float64(total)
	}

	return WorkerStats{
		Workers:        wp.workers,
		QueueSize:      wp.queueSize,
		QueueLength:    len(wp.taskQueue),
		TotalTasks:     total,
		CompletedTasks: completed,
		FailedTasks:    failed,
		SuccessRate:    successRate,
		AvgDuration:    wp.avgDuration,
	}
}

// worker is the worker goroutine that processes tasks
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for j := range wp.taskQueue {
		j.done <- wp.processTask(j.task)
	}
}

type outcome struct {
	value interface{}
	err   error
}

// processTask runs a single task under the pool's timeout
func (wp *WorkerPool) processTask(task Task) TaskResult {
	start := time.Now()

	result := TaskResult{
		TaskID:    task.GetID(),
		Timestamp: start,
	}

	taskCtx, cancel := wp.ctx, context.CancelFunc(func() {})
	if wp.taskTimeout > 0 {
		taskCtx, cancel = context.WithTimeout(wp.ctx, wp.taskTimeout)
	}
	defer cancel()

	// Buffered so an abandoned task can still finish without blocking
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("task panicked: %v", r)}
			}
		}()
		value, err := task.Execute(taskCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		result.Result = out.value
		result.Error = out.err
		result.Success = out.err == nil

	case <-taskCtx.Done():
		result.Error = ErrTaskTimeout
		result.Success = false
	}

	result.Duration = time.Since(start)

	if result.Success {
		atomic.AddInt64(&wp.completedTasks, 1)
	} else {
		atomic.AddInt64(&wp.failedTasks, 1)
	}

	wp.updateAvgDuration(result.Duration)

	return result
}

// updateAvgDuration updates the average task duration
func (wp *WorkerPool) updateAvgDuration(duration time.Duration) {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()

	// Exponential moving average
	if wp.avgDuration == 0 {
		wp.avgDuration = duration
	} else {
		wp.avgDuration = (wp.avgDuration + duration) / 2
	}
}

// WorkerStats represents worker pool statistics
type WorkerStats struct {
	Workers        int           `json:"workers"`
	QueueSize      int           `json:"queue_size"`
	QueueLength    int           `json:"queue_length"`
	TotalTasks     int64         `json:"total_tasks"`
	CompletedTasks int64         `json:"completed_tasks"`
	FailedTasks    int64         `json:"failed_tasks"`
	SuccessRate    float64       `json:"success_rate"`
	AvgDuration    time.Duration `json:"avg_duration"`
}
