// Package memory is an in-process task store with the same contract and
// ordering semantics as the Postgres store. It backs the service tests and
// local experimentation without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planloop/planner/internal/models"
	"github.com/planloop/planner/internal/services"
)

type record struct {
	task *models.Task
	seq  uint64
}

type Store struct {
	mu      sync.RWMutex
	records map[string]record
	nextSeq uint64
}

var _ services.TaskStore = (*Store)(nil)

func New() *Store {
	return &Store{
		records: make(map[string]record),
	}
}

func (s *Store) InsertTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := task.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.nextSeq++
	s.records[stored.ID] = record{task: stored, seq: s.nextSeq}
	return stored.Clone(), nil
}

func (s *Store) GetTaskByID(_ context.Context, taskID string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[taskID]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	return rec.task.Clone(), nil
}

func (s *Store) ReplaceTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[task.ID]
	if !ok || rec.task.OwnerID != task.OwnerID {
		return nil, services.ErrTaskNotFound
	}

	rec.task = task.Clone()
	s.records[task.ID] = rec
	return task.Clone(), nil
}

func (s *Store) SelectOverlapping(_ context.Context, params services.OverlapParams) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []record
	for _, rec := range s.records {
		task := rec.task
		if task.OwnerID != params.OwnerID {
			continue
		}
		if task.StartDate.After(params.Window.End) || task.EndDate.Before(params.Window.Start) {
			continue
		}
		if params.Status != nil && task.Status != *params.Status {
			continue
		}
		matched = append(matched, rec)
	}

	// Same ordering as the SQL store; the insertion sequence keeps ties on
	// identical ranges and created-at stamps stable.
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].task, matched[j].task
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if !a.EndDate.Equal(b.EndDate) {
			return a.EndDate.Before(b.EndDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return matched[i].seq < matched[j].seq
	})

	tasks := make([]models.Task, len(matched))
	for i, rec := range matched {
		tasks[i] = *rec.task.Clone()
	}
	return tasks, nil
}
