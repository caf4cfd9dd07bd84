package model

import (
	"time"
)

// User is an account of the identity provider. Email is the identity used
// as the membership key everywhere else.
type User struct {
	ID             string    `gorm:"type:text;primaryKey" bson:"_id"`
	Email          string    `gorm:"uniqueIndex;not null" bson:"email"`
	HashedPassword string    `gorm:"not null" bson:"hashedPassword"`
	Name           string    `bson:"name"`
	CreatedAt      time.Time `gorm:"autoCreateTime" bson:"createdAt"`
}
