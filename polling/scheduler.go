package polling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lordralex/absol/api/logger"
)

// Task is the work a scheduler runs once its time has come.
type Task func(ctx context.Context) error

type scheduled struct {
	timer *time.Timer
	gen   uint64
}

// Scheduler keeps at most one armed timer per key. Timers live in memory
// only; after a restart they are rebuilt from the store.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]scheduled
	gen     uint64
	stopped bool

	now     func() time.Time
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler whose tasks each get timeout to finish.
func NewScheduler(now func() time.Time, timeout time.Duration) *Scheduler {
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		timers:  make(map[string]scheduled),
		now:     now,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Schedule arms task to run at the given time, replacing anything already
// scheduled under key. A time at or before now runs the task right away on
// its own goroutine.
func (s *Scheduler) Schedule(key string, at time.Time, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if existing, ok := s.timers[key]; ok {
		existing.timer.Stop()
		delete(s.timers, key)
	}

	delay := at.Sub(s.now())
	if delay <= 0 {
		s.wg.Add(1)
		go s.run(key, task)
		return
	}

	s.gen++
	gen := s.gen
	s.timers[key] = scheduled{
		gen: gen,
		timer: time.AfterFunc(delay, func() {
			s.fire(key, gen, task)
		}),
	}
}

func (s *Scheduler) fire(key string, gen uint64, task Task) {
	s.mu.Lock()
	current, ok := s.timers[key]
	if !ok || current.gen != gen || s.stopped {
		// replaced or stopped while the timer was firing
		s.mu.Unlock()
		return
	}
	delete(s.timers, key)
	s.wg.Add(1)
	s.mu.Unlock()

	s.run(key, task)
}

func (s *Scheduler) run(key string, task Task) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Err().Str("task", key).Err(fmt.Errorf("%v", r)).Msg("scheduled task panicked")
		}
	}()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := task(ctx); err != nil {
		logger.Err().Str("task", key).Err(err).Msg("scheduled task failed")
	}
}

// Pending reports whether key has an armed timer.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop disarms every timer, waits for running tasks and refuses new ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for key, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.cancel()
}
