package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultJobTimeout = 5 * time.Minute

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	ID string
	Fn func(ctx context.Context) error
}

func (j JobFunc) Name() string                  { return j.ID }
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// TaskStatus is the in-memory state of one registered job.
type TaskStatus struct {
	Name      string     `json:"name"`
	Spec      string     `json:"spec"`
	Running   bool       `json:"running"`
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	NextRunAt *time.Time `json:"nextRunAt,omitempty"`
}

type task struct {
	job     Job
	spec    string
	entry   cron.EntryID
	running bool
	lastRun *time.Time
	lastErr string
}

// Service runs jobs on cron specs. A job never overlaps with itself.
type Service struct {
	cron    *cron.Cron
	timeout time.Duration

	mu      sync.RWMutex
	tasks   map[string]*task
	order   []string
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewService(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return &Service{
		cron: cron.New(
			cron.WithLogger(cron.VerbosePrintfLogger(log.Default())),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		timeout: timeout,
		tasks:   make(map[string]*task),
	}
}

// AddJob registers job on spec. An empty spec disables the job and is not
// an error.
func (s *Service) AddJob(spec string, job Job) error {
	name := job.Name()
	if spec == "" {
		log.Printf("[scheduler] %s disabled (no schedule)", name)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	t := &task{job: job, spec: spec}
	id, err := s.cron.AddFunc(spec, func() { s.execute(t) })
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	t.entry = id
	s.tasks[name] = t
	s.order = append(s.order, name)
	return nil
}

// Start begins running scheduled jobs. Jobs run with contexts derived from
// ctx.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.running = true
	log.Printf("[scheduler] started with %d job(s)", len(s.tasks))
}

// Stop halts the schedule and waits for running jobs until ctx expires.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	cronDone := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[scheduler] stopped gracefully")
	case <-ctx.Done():
		log.Println("[scheduler] stopped (timeout)")
	}
}

// RunNow runs the named job immediately in the background.
func (s *Service) RunNow(name string) error {
	s.mu.RLock()
	t, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not registered", name)
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(t)
	}()
	return nil
}

// Status lists registered jobs in registration order.
func (s *Service) Status() []TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TaskStatus, 0, len(s.order))
	for _, name := range s.order {
		t := s.tasks[name]
		status := TaskStatus{
			Name:      name,
			Spec:      t.spec,
			Running:   t.running,
			LastRunAt: t.lastRun,
			LastError: t.lastErr,
		}
		if next := s.cron.Entry(t.entry).Next; !next.IsZero() {
			status.NextRunAt = &next
		}
		out = append(out, status)
	}
	return out
}

var errAlreadyRunning = errors.New("already running")

func (s *Service) execute(t *task) {
	name := t.job.Name()

	s.mu.Lock()
	if t.running {
		s.mu.Unlock()
		log.Printf("[scheduler] skipping %s: %v", name, errAlreadyRunning)
		return
	}
	t.running = true
	parent := s.ctx
	s.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	log.Printf("[scheduler] executing %s", name)
	err := t.job.Run(ctx)

	now := time.Now().UTC()
	s.mu.Lock()
	t.running = false
	t.lastRun = &now
	t.lastErr = ""
	if err != nil {
		t.lastErr = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("[scheduler] %s failed: %v", name, err)
		return
	}
	log.Printf("[scheduler] %s completed in %s", name, time.Since(start).Round(time.Millisecond))
}
