package manager

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"tsched/catalog"
	"tsched/config"
	"tsched/run"
	"tsched/runner"
	"tsched/scheduler"
	"tsched/store"

	"github.com/golang-collections/collections/queue"
	"github.com/google/uuid"
)

var (
	// ErrNoExecutor is returned when a run is executed on a manager built
	// without an executor.
	ErrNoExecutor = errors.New("no executor configured")
	// ErrInvalidState is returned when a run cannot move to the requested state.
	ErrInvalidState = errors.New("invalid state transition")
)

func New(cfg *config.Config, exec runner.Executor) (*Manager, error) {
	m := &Manager{
		Pending:  *queue.New(),
		Config:   cfg,
		Executor: exec,
	}

	var rs store.Store[*run.Run]
	var es store.Store[*run.Event]
	switch cfg.Store.Type {
	case "memory":
		rs = store.NewInMemoryStore[*run.Run]()
		es = store.NewInMemoryStore[*run.Event]()
	case "persistent":
		prs, err := store.NewPersistentStore[*run.Run](cfg.Store.Path, 0600, "runs")
		if err != nil {
			return nil, err
		}
		pes, err := store.NewPersistentStore[*run.Event](cfg.Store.Path+".events", 0600, "events")
		if err != nil {
			prs.Close()
			return nil, err
		}
		rs, es = prs, pes
		m.closers = append(m.closers, prs.Close, pes.Close)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}

	m.RunDb = rs
	m.EventDb = es

	return m, nil
}

// Manager queues scheduling requests, solves them in submission order and
// keeps every run in its store.
type Manager struct {
	mu       sync.Mutex
	Pending  queue.Queue
	RunDb    store.Store[*run.Run]
	EventDb  store.Store[*run.Event]
	Config   *config.Config
	Executor runner.Executor

	closers []func() error
}

// Submit validates req and queues it. Malformed candidates and negative
// budgets are rejected here so the caller sees them immediately.
func (m *Manager) Submit(req run.Request) (*run.Run, error) {
	seconds := m.Config.BudgetSeconds
	if req.BudgetSeconds != nil {
		seconds = *req.BudgetSeconds
	}
	budget, err := budgetUnits(seconds)
	if err != nil {
		return nil, err
	}

	if _, err := catalog.Build(req.Candidates); err != nil {
		return nil, err
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = m.Config.Strategy
	}
	if _, err := m.scheduler(strategy); err != nil {
		return nil, err
	}

	r := run.Run{
		ID:          uuid.New(),
		Name:        req.Name,
		State:       run.Pending,
		Strategy:    strategy,
		Budget:      budget,
		Candidates:  req.Candidates,
		SubmittedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.RunDb.Put(r.ID.String(), &r); err != nil {
		return nil, fmt.Errorf("storing run %s: %w", r.ID, err)
	}
	m.Pending.Enqueue(run.Event{
		ID:        uuid.New(),
		State:     run.Solved,
		Timestamp: time.Now().UTC(),
		Run:       r,
	})
	m.logln("Queued run %s with %d candidates and budget %d", r.ID, len(r.Candidates), r.Budget)

	cp := r
	return &cp, nil
}

// SolveNext solves the oldest queued run. It reports false when the queue
// is empty.
func (m *Manager) SolveNext(ctx context.Context) bool {
	m.mu.Lock()
	if m.Pending.Len() == 0 {
		m.mu.Unlock()
		return false
	}
	ev := m.Pending.Dequeue().(run.Event)
	m.mu.Unlock()

	if err := m.EventDb.Put(ev.ID.String(), &ev); err != nil {
		m.logln("Error attempting to store run event %s: %s", ev.ID, err)
	}

	r := ev.Run
	sched, err := m.solve(ctx, &r)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.logln("Run %s failed: %v", r.ID, err)
		r.State = run.Failed
		r.Error = err.Error()
	} else {
		m.logln("Run %s selected %d of %d candidates, cost %d of %d, value %d",
			r.ID, sched.Count, len(r.Candidates), sched.TotalCost, r.Budget, sched.TotalValue)
		r.State = run.Solved
		r.Schedule = sched
		r.SolvedAt = time.Now().UTC()
	}

	if err := m.RunDb.Put(r.ID.String(), &r); err != nil {
		m.logln("Error storing run %s: %v", r.ID, err)
	}

	return true
}

func (m *Manager) solve(ctx context.Context, r *run.Run) (*scheduler.Schedule, error) {
	c, err := catalog.Build(r.Candidates)
	if err != nil {
		return nil, err
	}

	s, err := m.scheduler(r.Strategy)
	if err != nil {
		return nil, err
	}

	return s.Solve(ctx, c, r.Budget)
}

func (m *Manager) scheduler(name string) (scheduler.Scheduler, error) {
	return scheduler.NewLimited(name, m.Config.MaxCells)
}

// ProcessRuns solves queued runs until ctx is done.
func (m *Manager) ProcessRuns(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		for m.SolveNext(ctx) {
		}

		select {
		case <-ctx.Done():
			m.logln("Stopped processing runs")
			return
		case <-ticker.C:
		}
	}
}

// GetRuns returns every stored run.
func (m *Manager) GetRuns() []*run.Run {
	m.mu.Lock()
	defer m.mu.Unlock()

	runs, err := m.RunDb.List()
	if err != nil {
		m.logln("error getting list of runs: %v", err)
		return nil
	}

	out := make([]*run.Run, len(runs))
	for i, r := range runs {
		cp := *r
		out[i] = &cp
	}

	return out
}

func (m *Manager) GetRun(id uuid.UUID) (*run.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.RunDb.Get(id.String())
	if err != nil {
		return nil, err
	}

	cp := *r
	return &cp, nil
}

// BeginExecution marks a solved run as running. FinishExecution must follow.
func (m *Manager) BeginExecution(id uuid.UUID) (*run.Run, error) {
	if m.Executor == nil {
		return nil, ErrNoExecutor
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.RunDb.Get(id.String())
	if err != nil {
		return nil, err
	}

	if r.Schedule == nil || !run.ValidStateTransition(r.State, run.Running) {
		return nil, fmt.Errorf("%w: run %s is %v", ErrInvalidState, id, r.State)
	}

	cp := *r
	cp.State = run.Running
	cp.Results = nil
	cp.Error = ""
	if err := m.RunDb.Put(cp.ID.String(), &cp); err != nil {
		return nil, fmt.Errorf("storing run %s: %w", cp.ID, err)
	}

	out := cp
	return &out, nil
}

// FinishExecution runs the selected test cases of r and stores the results.
// The run completes even when tests fail; only a run that could not execute
// any test is marked failed.
func (m *Manager) FinishExecution(ctx context.Context, r *run.Run) *run.Run {
	w := runner.NewWorker(r.ID.String()[:8], m.Executor, m.Config.Runner)
	for _, c := range r.Schedule.Selected {
		w.AddCandidate(c)
	}

	results := w.RunAll(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	r.Results = results
	r.FinishedAt = time.Now().UTC()
	r.State = run.Completed
	if len(results) > 0 && allErrored(results) {
		r.State = run.Failed
		r.Error = results[0].Error
	}

	m.logln("Run %s finished: %d/%d passed", r.ID, r.Passed(), len(results))
	if err := m.RunDb.Put(r.ID.String(), r); err != nil {
		m.logln("Error storing run %s: %v", r.ID, err)
	}

	cp := *r
	return &cp
}

func allErrored(results []run.Result) bool {
	for _, res := range results {
		if res.Error == "" {
			return false
		}
	}
	return true
}

func (m *Manager) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// budgetUnits converts a budget in seconds to catalog sub-units.
func budgetUnits(seconds float64) (int64, error) {
	if seconds < 0 {
		return 0, &scheduler.InvalidBudgetError{Budget: int64(math.Trunc(seconds * catalog.Scale))}
	}
	budget, err := catalog.ToFixed(seconds)
	if err != nil {
		return 0, &scheduler.InvalidBudgetError{Budget: math.MaxInt64, Reason: err.Error()}
	}
	return budget, nil
}

func (m *Manager) logln(msg string, param ...any) string {

	s := "[manager] " + msg
	if len(param) >= 1 {
		s = fmt.Sprintf(s, param...)
	}

	log.Println(s)

	return s
}
