package model

import (
	"time"
)

// GroupMember is one row of a group's member set in the relational backend.
// The (GroupID, Email) key makes joining idempotent.
type GroupMember struct {
	GroupID  string    `gorm:"type:text;primaryKey"`
	Email    string    `gorm:"type:text;primaryKey"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}
