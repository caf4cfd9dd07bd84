package repository

import (
	"context"

	"learnly/internal/model"
)

// GroupStore persists group documents and their member sets.
type GroupStore interface {
	// Create stores a new group. The backend assigns group.ID.
	Create(ctx context.Context, group *model.Group) error
	// ListByMember returns every group whose members contain identity,
	// ordered by creation time and then id.
	ListByMember(ctx context.Context, identity string) ([]model.Group, error)
	// GetByID returns ErrGroupNotFound when the group does not exist.
	GetByID(ctx context.Context, id string) (*model.Group, error)
	// AddMember set-unions identity into the member set.
	AddMember(ctx context.Context, groupID, identity string) error
	IsMember(ctx context.Context, groupID, identity string) (bool, error)
}

// TaskStore mutates the task array of a group.
type TaskStore interface {
	// Append set-unions task onto the end of the group's task array.
	Append(ctx context.Context, groupID string, task *model.Task) error
	// Toggle flips the completion flag of the task with taskID in a single write.
	Toggle(ctx context.Context, groupID, taskID string) (*model.Task, error)
	// Replace removes the element equal to old and set-unions updated. When
	// no stored element equals old nothing is written and false is returned.
	Replace(ctx context.Context, groupID string, old, updated model.Task) (bool, error)
	ListByGroup(ctx context.Context, groupID string) ([]model.Task, error)
}

// UserStore persists identity provider accounts.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	// FindByEmail returns nil, nil when no account uses the email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Backend bundles the stores of one storage driver.
type Backend interface {
	Groups() GroupStore
	Tasks() TaskStore
	Users() UserStore
	Ping(ctx context.Context) error
	Close() error
}
