package repository

import (
	"errors"

	"learnly/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// groupExists returns ErrGroupNotFound when no group row has the id
func groupExists(tx *gorm.DB, groupID string) error {
	var group model.Group
	err := tx.Select("id").Where("id = ?", groupID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGroupNotFound
	}
	return err
}

// lockGroup is groupExists holding the group row until the transaction ends
func lockGroup(tx *gorm.DB, groupID string) error {
	return groupExists(tx.Clauses(clause.Locking{Strength: "UPDATE"}), groupID)
}

// hydrate fills Members and Tasks of the given groups with two queries
func hydrate(db *gorm.DB, groups []model.Group) error {
	if len(groups) == 0 {
		return nil
	}

	ids := make([]string, len(groups))
	index := make(map[string]int, len(groups))
	for i := range groups {
		ids[i] = groups[i].ID
		index[groups[i].ID] = i
		groups[i].Members = []string{}
		groups[i].Tasks = []model.Task{}
	}

	var members []model.GroupMember
	if err := db.Where("group_id IN ?", ids).Order("joined_at, email").Find(&members).Error; err != nil {
		return err
	}
	for _, m := range members {
		g := &groups[index[m.GroupID]]
		g.Members = append(g.Members, m.Email)
	}

	var tasks []model.Task
	if err := db.Where("group_id IN ?", ids).Order("group_id, position, id").Find(&tasks).Error; err != nil {
		return err
	}
	for _, t := range tasks {
		g := &groups[index[t.GroupID]]
		g.Tasks = append(g.Tasks, t)
	}

	return nil
}
