package repository

import (
	"context"
	"errors"

	"learnly/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	db *gorm.DB
}

var _ GroupStore = (*GroupRepository)(nil)

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts the group row and its initial member set in one transaction
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		for _, email := range group.Members {
			if err := addMember(tx, group.ID, email); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByMember returns the groups the identity belongs to, oldest first
func (r *GroupRepository) ListByMember(ctx context.Context, identity string) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.email = ?", identity).
		Order("groups.created_at, groups.id").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}

	if err := hydrate(r.db.WithContext(ctx), groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	groups := []model.Group{group}
	if err := hydrate(r.db.WithContext(ctx), groups); err != nil {
		return nil, err
	}
	return &groups[0], nil
}

// AddMember adds identity to the member set. Joining twice is a no-op.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, identity string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := groupExists(tx, groupID); err != nil {
			return err
		}
		return addMember(tx, groupID, identity)
	})
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, identity string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND email = ?", groupID, identity).
		Count(&count).Error
	return count > 0, err
}

func addMember(tx *gorm.DB, groupID, email string) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.GroupMember{GroupID: groupID, Email: email}).Error
}
