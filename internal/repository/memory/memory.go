// Package memory is a process-local Backend. It keeps the same document
// semantics as the database backends and is used by tests and by
// STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"learnly/internal/model"
	"learnly/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu     sync.RWMutex
	groups map[string]*model.Group
	users  map[string]*model.User
}

var _ repository.Backend = (*Store)(nil)

func New() *Store {
	return &Store{
		groups: make(map[string]*model.Group),
		users:  make(map[string]*model.User),
	}
}

func (s *Store) Groups() repository.GroupStore { return groupStore{s} }
func (s *Store) Tasks() repository.TaskStore   { return taskStore{s} }
func (s *Store) Users() repository.UserStore   { return userStore{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Close() error                   { return nil }

type groupStore struct{ s *Store }

func (g groupStore) Create(ctx context.Context, group *model.Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	stored := clone(group)
	stored.Members = union(nil, group.Members...)
	g.s.groups[group.ID] = stored
	return nil
}

func (g groupStore) ListByMember(ctx context.Context, identity string) ([]model.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()

	groups := []model.Group{}
	for _, group := range g.s.groups {
		if group.HasMember(identity) {
			groups = append(groups, *clone(group))
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].CreatedAt.Before(groups[j].CreatedAt)
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

func (g groupStore) GetByID(ctx context.Context, id string) (*model.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()

	group, ok := g.s.groups[id]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}
	return clone(group), nil
}

func (g groupStore) AddMember(ctx context.Context, groupID, identity string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	group, ok := g.s.groups[groupID]
	if !ok {
		return repository.ErrGroupNotFound
	}
	group.Members = union(group.Members, identity)
	return nil
}

func (g groupStore) IsMember(ctx context.Context, groupID, identity string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()

	group, ok := g.s.groups[groupID]
	if !ok {
		return false, nil
	}
	return group.HasMember(identity), nil
}

type taskStore struct{ s *Store }

func (t taskStore) Append(ctx context.Context, groupID string, task *model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	group, ok := t.s.groups[groupID]
	if !ok {
		return repository.ErrGroupNotFound
	}
	task.GroupID = groupID
	group.Tasks = appendTask(group.Tasks, *task)
	return nil
}

func (t taskStore) Toggle(ctx context.Context, groupID, taskID string) (*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	group, ok := t.s.groups[groupID]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}
	for i := range group.Tasks {
		if group.Tasks[i].ID == taskID {
			group.Tasks[i].Completed = !group.Tasks[i].Completed
			task := group.Tasks[i]
			return &task, nil
		}
	}
	return nil, repository.ErrTaskNotFound
}

func (t taskStore) Replace(ctx context.Context, groupID string, old, updated model.Task) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	group, ok := t.s.groups[groupID]
	if !ok {
		return false, repository.ErrGroupNotFound
	}

	kept := make([]model.Task, 0, len(group.Tasks))
	matched := false
	for _, task := range group.Tasks {
		if task.Equal(old) {
			matched = true
			continue
		}
		kept = append(kept, task)
	}
	if !matched {
		return false, nil
	}
	updated.GroupID = groupID
	group.Tasks = appendTask(kept, updated)
	return matched, nil
}

func (t taskStore) ListByGroup(ctx context.Context, groupID string) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	group, ok := t.s.groups[groupID]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}
	return append([]model.Task{}, group.Tasks...), nil
}

type userStore struct{ s *Store }

func (u userStore) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stored := *user
	u.s.users[user.ID] = &stored
	return nil
}

func (u userStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

func (u userStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func clone(g *model.Group) *model.Group {
	c := *g
	c.Members = append([]string{}, g.Members...)
	c.Tasks = append([]model.Task{}, g.Tasks...)
	return &c
}

func union(members []string, add ...string) []string {
	for _, m := range add {
		found := false
		for _, existing := range members {
			if existing == m {
				found = true
				break
			}
		}
		if !found {
			members = append(members, m)
		}
	}
	return members
}

// appendTask adds task unless an equal element is already present
func appendTask(tasks []model.Task, task model.Task) []model.Task {
	for _, existing := range tasks {
		if existing.Equal(task) {
			return tasks
		}
	}
	return append(tasks, task)
}
