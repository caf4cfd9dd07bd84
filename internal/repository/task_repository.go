package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnly/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

var _ TaskStore = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Append adds the task after the last one of the group. A task with the
// same id already in the group is left untouched.
func (r *TaskRepository) Append(ctx context.Context, groupID string, task *model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockGroup(tx, groupID); err != nil {
			return err
		}
		return appendTask(tx, groupID, task)
	})
}

// Toggle flips the completion flag in place and returns the stored task
func (r *TaskRepository) Toggle(ctx context.Context, groupID, taskID string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Task{}).
			Where("group_id = ? AND id = ?", groupID, taskID).
			Update("completed", gorm.Expr("NOT completed"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := groupExists(tx, groupID); err != nil {
				return err
			}
			return ErrTaskNotFound
		}
		return tx.Where("group_id = ? AND id = ?", groupID, taskID).First(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Replace deletes the row whose every field equals old, then appends
// updated. When no row matches old nothing is written.
func (r *TaskRepository) Replace(ctx context.Context, groupID string, old, updated model.Task) (bool, error) {
	var matched bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockGroup(tx, groupID); err != nil {
			return err
		}

		result := tx.Where(
			"group_id = ? AND id = ? AND text = ? AND completed = ? AND created_by = ? AND created_at = ? AND deadline = ?",
			groupID, old.ID, old.Text, old.Completed, old.CreatedBy, old.CreatedAt, old.Deadline,
		).Delete(&model.Task{})
		if result.Error != nil {
			return result.Error
		}
		matched = result.RowsAffected > 0
		if !matched {
			return nil
		}

		return appendTask(tx, groupID, &updated)
	})
	return matched, err
}

// ListByGroup returns the task array in stored order
func (r *TaskRepository) ListByGroup(ctx context.Context, groupID string) ([]model.Task, error) {
	if err := groupExists(r.db.WithContext(ctx), groupID); err != nil {
		return nil, err
	}

	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("group_id = ?", groupID).Order("position, id").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// appendTask expects the group row to be locked by the caller so that
// concurrent appends get distinct positions.
func appendTask(tx *gorm.DB, groupID string, task *model.Task) error {
	var next struct {
		Next int
	}
	err := tx.Model(&model.Task{}).
		Select("COALESCE(MAX(position), -1) + 1 as next").
		Where("group_id = ?", groupID).
		Scan(&next).Error
	if err != nil {
		return err
	}

	task.GroupID = groupID
	task.Position = next.Next
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(task).Error
}

// IsNotFound reports whether err means the addressed group or task is missing
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) || errors.Is(err, ErrTaskNotFound)
}
