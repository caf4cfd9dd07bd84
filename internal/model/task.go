package model

import (
	"time"
)

// Task is a to-do item embedded in a Group.
//
// GroupID and Position only exist for the relational backend, where the
// task array is a side table ordered by Position.
type Task struct {
	ID        string    `gorm:"type:text;primaryKey" bson:"id" json:"id"`
	GroupID   string    `gorm:"type:text;primaryKey" bson:"-" json:"-"`
	Position  int       `gorm:"not null" bson:"-" json:"-"`
	Text      string    `gorm:"not null" bson:"text" json:"text"`
	Completed bool      `gorm:"not null" bson:"completed" json:"completed"`
	CreatedBy string    `gorm:"not null" bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time `gorm:"not null" bson:"createdAt" json:"createdAt"`
	Deadline  time.Time `gorm:"not null" bson:"deadline" json:"deadline"`
}

func (Task) TableName() string {
	return "group_tasks"
}

// Equal compares every stored field of the task value. Set-union and
// set-remove on the task array use this notion of equality.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Text == o.Text &&
		t.Completed == o.Completed &&
		t.CreatedBy == o.CreatedBy &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.Deadline.Equal(o.Deadline)
}

// In returns a copy with both timestamps converted to loc.
func (t Task) In(loc *time.Location) Task {
	if loc == nil {
		return t
	}
	t.CreatedAt = t.CreatedAt.In(loc)
	t.Deadline = t.Deadline.In(loc)
	return t
}
