package tasks

import (
	"context"

	"github.com/Aidin1998/taskapi/common/dbutil"
	"github.com/Aidin1998/taskapi/pkg/errors"
	"github.com/Aidin1998/taskapi/pkg/models"
	"gorm.io/gorm"
)

// Repository provides task persistence on top of gorm
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithContext returns repository with context
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}

// Transaction runs fn against a repository bound to a single transaction
func (r *Repository) Transaction(fn func(tx *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// List returns every task, most recently created first
func (r *Repository) List() ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := r.db.Order("created_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, dbutil.WrapError(err)
	}
	return tasks, nil
}

// FindByID loads a task or returns errors.NotFound
func (r *Repository) FindByID(id uint) (*models.Task, error) {
	return dbutil.FindOne[models.Task](r.db.Where("id = ?", id))
}

// Create inserts task and fills in its generated columns
func (r *Repository) Create(task *models.Task) error {
	return dbutil.WrapError(r.db.Create(task).Error)
}

// Update writes the mutable columns of task and refreshes updated_at.
// It never inserts, so a row deleted concurrently stays deleted.
func (r *Repository) Update(task *models.Task) error {
	task.UpdatedAt = r.db.NowFunc()
	result := r.db.Model(task).
		Select("title", "description", "completed", "updated_at").
		Updates(task)
	if result.Error != nil {
		return dbutil.WrapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound
	}
	return nil
}

// Delete removes the task with id or returns errors.NotFound
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return dbutil.WrapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound
	}
	return nil
}

// Ping checks the underlying connection
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
