package model

import (
	"time"
)

// DefaultGroupName is shown when a stored group has no name.
const DefaultGroupName = "Group"

// Group is the shared study group document. Members and Tasks are stored
// inline by the document backends and in side tables by postgres.
type Group struct {
	ID          string    `gorm:"type:text;primaryKey" bson:"_id" json:"id"`
	Name        string    `gorm:"not null" bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	CreatedBy   string    `gorm:"not null" bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time `gorm:"autoCreateTime" bson:"createdAt" json:"createdAt"`

	Members []string `gorm:"-" bson:"members" json:"members"`
	Tasks   []Task   `gorm:"-" bson:"tasks,omitempty" json:"tasks"`
}

// HasMember reports whether identity is in the member set.
func (g *Group) HasMember(identity string) bool {
	for _, m := range g.Members {
		if m == identity {
			return true
		}
	}
	return false
}
