// Package todo holds the task list state and its mutation and query operations.
//
// A Store keeps tasks in insertion order together with the current view filter.
// Every call that changes the list writes the full list to its storage.Storage
// before returning. Persistence is best effort: load failures start an empty
// list and save failures are logged, never returned.
package todo

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"todolist/internal/models"
	"todolist/internal/storage"
)

// saveTimeout bounds a single persistence write.
const saveTimeout = 5 * time.Second

// Store owns the task list and the active filter.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	clock   func() time.Time
	logger  *log.Logger

	tasks  []models.Task
	filter models.Filter
	lastID int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to derive task ids.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// View is a snapshot of everything a presenter needs to redraw.
type View struct {
	Filter       models.Filter `json:"filter"`
	Tasks        []models.Task `json:"tasks"`
	Total        int           `json:"total"`
	Active       int           `json:"active"`
	Completed    int           `json:"completed"`
	EmptyMessage string        `json:"empty_message"`
}

// New creates a Store backed by st and hydrates it.
func New(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		clock:   time.Now,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Initialize(ctx)
	return s
}

// Initialize replaces the in-memory list with the persisted one and resets the
// filter to All. Missing or unreadable data yields an empty list.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []models.Task{}
	s.filter = models.FilterAll
	s.lastID = 0

	loaded, err := s.storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("todo: ignoring unreadable task list: %v", err)
		}
		return
	}

	seen := make(map[int64]struct{}, len(loaded))
	for _, t := range loaded {
		if err := t.Validate(); err != nil {
			s.logger.Printf("todo: dropping invalid task %d: %v", t.ID, err)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			s.logger.Printf("todo: dropping task with duplicate id %d", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		s.tasks = append(s.tasks, t)
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
}

// AddTask appends a new active task with the trimmed text. Text that is empty
// after trimming is ignored and ok is false.
func (s *Store) AddTask(ctx context.Context, rawText string) (task models.Task, ok bool) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return models.Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task = models.Task{
		ID:   s.nextID(),
		Text: text,
	}
	s.tasks = append(s.tasks, task)
	s.persist(ctx)

	return task, true
}

// nextID derives an id from the clock in milliseconds, bumped past the largest
// id handed out so far. Callers must hold mu.
func (s *Store) nextID() int64 {
	id := s.clock().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// ToggleTask flips the completion flag of the task with the given id. It
// reports whether a task was found; only then is the list persisted.
func (s *Store) ToggleTask(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.persist(ctx)
			return true
		}
	}
	return false
}

// DeleteTask removes the task with the given id and reports whether one was
// removed. The list is persisted either way.
func (s *Store) DeleteTask(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			removed = true
			break
		}
	}
	s.persist(ctx)
	return removed
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *Store) ClearCompleted(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	s.persist(ctx)
	return removed
}

// SetFilter changes the active filter. Filters are not persisted.
func (s *Store) SetFilter(f models.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Filter returns the active filter.
func (s *Store) Filter() models.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// FilteredTasks returns the tasks matching the active filter in insertion order.
func (s *Store) FilteredTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.filter).Tasks
}

// Tasks returns a copy of every task in insertion order.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Task{}, s.tasks...)
}

// Len returns the total number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// ActiveCount returns the number of tasks not yet completed.
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, _ := s.counts()
	return active
}

// CompletedCount returns the number of completed tasks.
func (s *Store) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, completed := s.counts()
	return completed
}

func (s *Store) counts() (active, completed int) {
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

// Snapshot returns a consistent view of the filtered list and all counters.
func (s *Store) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.filter)
}

// SnapshotWith is like Snapshot but applies f instead of the active filter,
// leaving the active filter unchanged.
func (s *Store) SnapshotWith(f models.Filter) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(f)
}

func (s *Store) view(f models.Filter) View {
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Match(t) {
			tasks = append(tasks, t)
		}
	}

	active, completed := s.counts()
	return View{
		Filter:       f,
		Tasks:        tasks,
		Total:        len(s.tasks),
		Active:       active,
		Completed:    completed,
		EmptyMessage: f.EmptyMessage(),
	}
}

// persist writes the full list. The write is detached from ctx cancellation so
// an abandoned caller cannot leave storage behind memory. Callers must hold mu.
func (s *Store) persist(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := s.storage.Save(ctx, s.tasks); err != nil {
		s.logger.Printf("todo: failed to save task list: %v", err)
	}
}
