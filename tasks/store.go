package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"verva-api/domain"
)

// Backend is the persistence slot holding one task collection per user.
type Backend interface {
	Load(ctx context.Context, userID string) ([]domain.Task, error)
	Save(ctx context.Context, userID string, tasks []domain.Task) error
}

// Store owns the task collection for each user. Every mutation persists the
// full collection before returning, so the effects of one user action are
// durable before the next one is processed.
type Store struct {
	backend Backend
	now     func() time.Time
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend) *Store {
	if backend == nil {
		panic("tasks.NewStore: backend is nil")
	}
	return &Store{backend: backend, now: time.Now}
}

// List returns the user's tasks narrowed by the given filter.
func (s *Store) List(ctx context.Context, userID string, f domain.Filter) ([]domain.Task, error) {
	tasks, err := s.backend.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.FilterTasks(tasks, f, s.today()), nil
}

// Add prepends a new task to the collection. A blank or whitespace title is
// a silent no-op returning the collection unchanged.
func (s *Store) Add(ctx context.Context, userID, title string, priority domain.Priority, dueDate string) ([]domain.Task, error) {
	tasks, err := s.backend.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return tasks, nil
	}
	if !priority.Valid() {
		priority = domain.PriorityMedium
	}
	task := domain.Task{
		ID:        uuid.NewString(),
		Title:     title,
		DueDate:   dueDate,
		Priority:  priority,
		CreatedAt: nextCreatedAt(),
	}
	tasks = append([]domain.Task{task}, tasks...)
	if err := s.backend.Save(ctx, userID, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Toggle flips the completion flag of the task with the given id. Unknown
// ids are a no-op.
func (s *Store) Toggle(ctx context.Context, userID, id string) ([]domain.Task, error) {
	return s.mutate(ctx, userID, id, func(t *domain.Task) {
		t.Completed = !t.Completed
	})
}

// Update merges the patch into the task with the given id. Unknown ids are a
// no-op.
func (s *Store) Update(ctx context.Context, userID, id string, patch domain.TaskPatch) ([]domain.Task, error) {
	return s.mutate(ctx, userID, id, func(t *domain.Task) {
		patch.Apply(t)
	})
}

// Delete removes the task with the given id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, userID, id string) ([]domain.Task, error) {
	tasks, err := s.backend.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		return tasks, nil
	}
	if err := s.backend.Save(ctx, userID, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) mutate(ctx context.Context, userID, id string, fn func(*domain.Task)) ([]domain.Task, error) {
	tasks, err := s.backend.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range tasks {
		if tasks[i].ID == id {
			fn(&tasks[i])
			found = true
			break
		}
	}
	if !found {
		return tasks, nil
	}
	if err := s.backend.Save(ctx, userID, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) today() string {
	return s.now().Format("2006-01-02")
}
