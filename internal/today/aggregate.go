package today

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/ticktoday/internal/logging"
	"github.com/teemow/ticktoday/internal/ticktick"
)

// defaultWorkers bounds how many project fetches run concurrently
const defaultWorkers = 4

// Source is the slice of the TickTick client the aggregator needs
type Source interface {
	ListProjects(ctx context.Context) ([]ticktick.Project, error)
	ProjectData(ctx context.Context, projectID string) (*ticktick.ProjectData, error)
}

// Entry pairs a task due today with the project it belongs to
type Entry struct {
	Task    ticktick.Task
	Project ticktick.Project
}

// SkippedProject records a project whose task fetch failed. The run
// continues without it.
type SkippedProject struct {
	Project ticktick.Project
	Err     error
}

// Result is the ordered set of tasks due today. Entries follow project
// enumeration order, then task order within each project; there is no
// cross-project sort.
type Result struct {
	Entries []Entry
	Skipped []SkippedProject
}

// Aggregator collects today's tasks across all projects
type Aggregator struct {
	src     Source
	now     func() time.Time
	logger  *slog.Logger
	workers int
}

// AggregatorOption configures an Aggregator
type AggregatorOption func(*Aggregator)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithLogger sets the aggregator's logger
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithWorkers bounds the number of concurrent project fetches
func WithWorkers(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// NewAggregator creates an Aggregator reading from src
func NewAggregator(src Source, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		src:     src,
		now:     time.Now,
		logger:  slog.Default(),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.WithService(a.logger, "today")
	return a
}

// Collect fetches every project's tasks and returns the ones due
// today. Failing to list projects is fatal; a single project's fetch
// failure is reported in Result.Skipped and logged as a warning.
func (a *Aggregator) Collect(ctx context.Context) (*Result, error) {
	projects, err := a.src.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	type fetched struct {
		data *ticktick.ProjectData
		err  error
	}

	// Fetches run concurrently, but results are gathered into a slice
	// indexed by project position so the merge below never depends on
	// completion order
	results := make([]fetched, len(projects))

	workers := a.workers
	if workers > len(projects) {
		workers = len(projects)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				data, err := a.src.ProjectData(ctx, projects[i].ID)
				results[i] = fetched{data: data, err: err}
			}
		}()
	}
	for i := range projects {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	now := a.now()
	result := &Result{}
	for i, project := range projects {
		if results[i].err != nil {
			a.logger.Warn("skipping project",
				logging.Project(project.Name),
				logging.Err(results[i].err))
			result.Skipped = append(result.Skipped, SkippedProject{
				Project: project,
				Err:     results[i].err,
			})
			continue
		}
		for _, task := range results[i].data.Tasks {
			if dueToday(now, task) {
				result.Entries = append(result.Entries, Entry{
					Task:    task,
					Project: project,
				})
			}
		}
	}

	a.logger.Debug("aggregation complete",
		logging.Operation("collect"),
		"projects", len(projects),
		"due_today", len(result.Entries),
		"skipped", len(result.Skipped))
	return result, nil
}

// dueToday reports whether a task belongs in today's display set: it
// is still open and its due date or start date falls on the same
// calendar day as now, evaluated in now's location. All-day tasks are
// stored as midnight UTC; converting those through now's location
// would shift them off their nominal day west of UTC, so they are
// compared on their nominal date instead.
func dueToday(now time.Time, task ticktick.Task) bool {
	if task.Status != ticktick.StatusOpen {
		return false
	}
	return sameDay(now, task.DueDate, task.AllDay) || sameDay(now, task.StartDate, task.AllDay)
}

// sameDay reports whether ts falls on now's calendar day
func sameDay(now time.Time, ts *time.Time, allDay bool) bool {
	if ts == nil {
		return false
	}
	when := *ts
	if !allDay {
		when = when.In(now.Location())
	}
	y1, m1, d1 := now.Date()
	y2, m2, d2 := when.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
