package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler fires crawl tasks at configured wall-clock times and runs them on
// a worker pool. One worker keeps runs strictly sequential, which the
// admission pipeline expects.
type Scheduler struct {
	runner      *Runner
	newsTimes   []string // "HH:MM" in the configured timezone
	eventTimes  []string
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	mu        sync.Mutex
	lastFired map[TaskType]string // "2006-01-02 15:04" of the last firing
}

func NewScheduler(runner *Runner, newsTimes, eventTimes []string, workerCount int) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount <= 0 {
		workerCount = 1
	}

	return &Scheduler{
		runner:      runner,
		newsTimes:   newsTimes,
		eventTimes:  eventTimes,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 10),
		lastFired:   make(map[TaskType]string),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks(time.Now())
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueDueTasks fires each task type at most once per scheduled minute.
func (s *Scheduler) enqueueDueTasks(now time.Time) {
	local := now.In(time.Local)
	day := local.Format("2006-01-02")
	clock := local.Format("15:04")

	if s.due(TaskTypeCrawlNews, s.newsTimes, day, clock) {
		if err := s.EnqueueTask(NewCrawlNewsTask(s.runner)); err != nil {
			slog.Warn("Failed to enqueue CrawlNewsTask", "error", err)
		}
	}
	if s.due(TaskTypeCrawlEvents, s.eventTimes, day, clock) {
		if err := s.EnqueueTask(NewCrawlEventsTask(s.runner)); err != nil {
			slog.Warn("Failed to enqueue CrawlEventsTask", "error", err)
		}
	}
}

// due reports whether the clock matches a configured time that has not fired
// yet. The last-fired stamp includes the date so the same time fires again on
// the following day.
func (s *Scheduler) due(taskType TaskType, times []string, day, clock string) bool {
	matched := false
	for _, t := range times {
		if t == clock {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	stamp := day + " " + clock

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFired[taskType] == stamp {
		return false
	}
	s.lastFired[taskType] = stamp
	return true
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 10*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "category", task.GetCategory(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
