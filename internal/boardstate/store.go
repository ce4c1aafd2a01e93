// Package boardstate keeps an in-memory mirror of the kanban board: a task
// map plus per-status columns, seeded by one full fetch and kept live by
// applying broadcast events as patches.
//
// The relay guarantees neither ordering nor delivery, so the store is
// deliberately defensive: duplicate events are idempotent by key, and an
// update for a task the store has never seen triggers a targeted refetch
// instead of being trusted as state. Events are hints, not the source of
// truth.
package boardstate

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/realtime"
)

// Task is the board's view of a task. Only the fields the board renders.
type Task struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Status    models.TaskStatus   `json:"status"`
	Priority  models.TaskPriority `json:"priority"`
	DueDate   *time.Time          `json:"due_date"`
	CreatorID string              `json:"creator_id"`
}

// Fetcher pulls authoritative task state from the API. The store calls it
// for the initial snapshot, for full resyncs, and for targeted refetches
// when an event references an unknown task.
type Fetcher interface {
	FetchTask(ctx context.Context, id string) (*Task, error)
	FetchAll(ctx context.Context) ([]Task, error)
}

// StatusChange is the mutation intent produced by a cross-column move. The
// caller is expected to send it to the server; intra-column reordering
// produces none and stays local.
type StatusChange struct {
	TaskID string
	Status models.TaskStatus
}

// Store is one tab's board state. Safe for concurrent use: events arrive
// from the relay subscriber goroutine while moves come from the UI path.
type Store struct {
	mu      sync.Mutex
	tasks   map[string]Task
	columns map[models.TaskStatus][]string
	fetcher Fetcher
}

// NewStore creates an empty Store backed by the given fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		tasks:   make(map[string]Task),
		columns: emptyColumns(),
		fetcher: fetcher,
	}
}

// Load performs the initial full fetch and buckets tasks into columns.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(tasks)
	return nil
}

// Resync discards local state and reloads from the API. This is the
// recovery path for anything the event stream got wrong.
func (s *Store) Resync(ctx context.Context) error {
	return s.Load(ctx)
}

// Apply patches the store with one broadcast event. Unknown event names
// are ignored.
func (s *Store) Apply(ctx context.Context, ev realtime.Event) {
	switch ev.Name {
	case realtime.EventTaskCreated, realtime.EventTaskUpdated:
		var task Task
		if err := json.Unmarshal(ev.Payload, &task); err != nil || task.ID == "" {
			logrus.WithField("event", ev.Name).Warn("boardstate: dropping malformed task event")
			return
		}

		if ev.Name == realtime.EventTaskUpdated && !s.knows(task.ID) {
			// Out-of-order delivery: the update beat the create. The
			// payload may already be stale, so fetch instead of trusting it.
			s.refetch(ctx, task.ID)
			return
		}
		s.upsert(task)

	case realtime.EventTaskDeleted:
		var id string
		if err := json.Unmarshal(ev.Payload, &id); err != nil || id == "" {
			logrus.Warn("boardstate: dropping malformed delete event")
			return
		}
		s.remove(id)
	}
}

// Move applies a drag-and-drop optimistically. Cross-column moves return a
// StatusChange for the caller to persist; intra-column reordering mutates
// only local order, which is not persisted anywhere and resets on resync.
func (s *Store) Move(taskID string, from, to models.TaskStatus, index int) (*StatusChange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, false
	}

	s.columns[from] = removeID(s.columns[from], taskID)
	s.columns[to] = insertID(s.columns[to], taskID, index)

	if from == to {
		return nil, false
	}

	task.Status = to
	s.tasks[taskID] = task
	return &StatusChange{TaskID: taskID, Status: to}, true
}

// Task returns the stored task by id.
func (s *Store) Task(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	return task, ok
}

// Column returns a copy of the task ids in the given column, in order.
func (s *Store) Column(status models.TaskStatus) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.columns[status]))
	copy(ids, s.columns[status])
	return ids
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Store) knows(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	return ok
}

func (s *Store) refetch(ctx context.Context, id string) {
	task, err := s.fetcher.FetchTask(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("task_id", id).Warn("boardstate: targeted refetch failed")
		return
	}
	if task == nil || task.ID == "" {
		return
	}
	s.upsert(*task)
}

// upsert is the idempotent insert/patch path shared by created and updated
// events. Column membership is deduplicated by removing the id from every
// column before appending it to the one its status names.
func (s *Store) upsert(task Task) {
	if !task.Status.Valid() {
		logrus.WithField("status", task.Status).Warn("boardstate: dropping task with unknown status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for status := range s.columns {
		s.columns[status] = removeID(s.columns[status], task.ID)
	}
	s.columns[task.Status] = append(s.columns[task.Status], task.ID)
	s.tasks[task.ID] = task
}

func (s *Store) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tasks, id)
	for status := range s.columns {
		s.columns[status] = removeID(s.columns[status], id)
	}
}

func (s *Store) replace(tasks []Task) {
	s.tasks = make(map[string]Task, len(tasks))
	s.columns = emptyColumns()

	for _, task := range tasks {
		if !task.Status.Valid() {
			continue
		}
		if _, dup := s.tasks[task.ID]; dup {
			continue
		}
		s.tasks[task.ID] = task
		s.columns[task.Status] = append(s.columns[task.Status], task.ID)
	}
}

func emptyColumns() map[models.TaskStatus][]string {
	columns := make(map[models.TaskStatus][]string, len(models.BoardStatuses))
	for _, status := range models.BoardStatuses {
		columns[status] = nil
	}
	return columns
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func insertID(ids []string, id string, index int) []string {
	ids = removeID(ids, id)
	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	ids = append(ids, "")
	copy(ids[index+1:], ids[index:])
	ids[index] = id
	return ids
}
