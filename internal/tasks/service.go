// Package tasks implements the task collection: listing, creation, lookup, merge updates and deletion.
package tasks

import (
	"context"

	"github.com/Aidin1998/taskapi/pkg/errors"
	"github.com/Aidin1998/taskapi/pkg/metrics"
	"github.com/Aidin1998/taskapi/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateInput carries the validated fields of a new task
type CreateInput struct {
	Title       string
	Description *string
	Completed   bool
}

// UpdateInput carries the fields supplied for a merge update. A nil pointer leaves the stored
// value untouched, except Description which is governed by SetDescription so it can be nulled.
type UpdateInput struct {
	Title          *string
	Description    *string
	SetDescription bool
	Completed      *bool
}

// TaskService defines the task collection operations
type TaskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, in CreateInput) (*models.Task, error)
	Get(ctx context.Context, id uint) (*models.Task, error)
	Update(ctx context.Context, id uint, in UpdateInput) (*models.Task, error)
	Delete(ctx context.Context, id uint) error
	Ping(ctx context.Context) error
}

// Service implements TaskService
type Service struct {
	logger *zap.Logger
	repo   *Repository
}

var _ TaskService = (*Service)(nil)

// NewService creates a new task service
func NewService(logger *zap.Logger, db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("tasks: nil database")
	}
	return &Service{
		logger: logger.Named("tasks"),
		repo:   NewRepository(db),
	}, nil
}

// List returns all tasks ordered by creation time descending
func (s *Service) List(ctx context.Context) ([]models.Task, error) {
	return s.repo.WithContext(ctx).List()
}

// Create persists a new task
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Task, error) {
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}
	if err := s.repo.WithContext(ctx).Create(task); err != nil {
		return nil, err
	}

	metrics.TaskMutations.WithLabelValues("create").Inc()
	s.logger.Info("Task created", zap.Uint("id", task.ID))
	return task, nil
}

// Get returns a single task
func (s *Service) Get(ctx context.Context, id uint) (*models.Task, error) {
	return s.repo.WithContext(ctx).FindByID(id)
}

// Update merges the supplied fields into the stored task
func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*models.Task, error) {
	var task *models.Task
	err := s.repo.WithContext(ctx).Transaction(func(tx *Repository) error {
		current, err := tx.FindByID(id)
		if err != nil {
			return err
		}

		if in.Title != nil {
			current.Title = *in.Title
		}
		if in.SetDescription {
			current.Description = in.Description
		}
		if in.Completed != nil {
			current.Completed = *in.Completed
		}

		if err := tx.Update(current); err != nil {
			return err
		}
		task = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TaskMutations.WithLabelValues("update").Inc()
	s.logger.Info("Task updated", zap.Uint("id", task.ID))
	return task, nil
}

// Delete removes a task
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.WithContext(ctx).Delete(id); err != nil {
		return err
	}

	metrics.TaskMutations.WithLabelValues("delete").Inc()
	s.logger.Info("Task deleted", zap.Uint("id", id))
	return nil
}

// Ping reports whether the database is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
