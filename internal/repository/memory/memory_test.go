package memory_test

import (
	"context"
	"testing"
	"time"

	"learnly/internal/model"
	"learnly/internal/repository"
	"learnly/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroup(t *testing.T, store *memory.Store, name string, createdAt time.Time, members ...string) *model.Group {
	t.Helper()
	group := &model.Group{Name: name, CreatedBy: members[0], CreatedAt: createdAt, Members: members}
	require.NoError(t, store.Groups().Create(context.Background(), group))
	return group
}

func TestGroups_ListByMemberOrdersByCreation(t *testing.T) {
	store := memory.New()
	base := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	second := newGroup(t, store, "Physics", base.Add(time.Hour), "a@x.io")
	first := newGroup(t, store, "Algebra", base, "a@x.io", "b@x.io")
	newGroup(t, store, "Other", base, "c@x.io")

	groups, err := store.Groups().ListByMember(context.Background(), "a@x.io")

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, first.ID, groups[0].ID)
	assert.Equal(t, second.ID, groups[1].ID)
}

func TestGroups_AddMemberIsIdempotent(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	group := newGroup(t, store, "Algebra", time.Now(), "a@x.io")

	require.NoError(t, store.Groups().AddMember(ctx, group.ID, "b@x.io"))
	require.NoError(t, store.Groups().AddMember(ctx, group.ID, "b@x.io"))

	got, err := store.Groups().GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, got.Members)
}

func TestGroups_AddMemberUnknownGroup(t *testing.T) {
	store := memory.New()

	err := store.Groups().AddMember(context.Background(), "missing", "a@x.io")

	assert.ErrorIs(t, err, repository.ErrGroupNotFound)
}

func TestGroups_GetByIDReturnsCopy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	group := newGroup(t, store, "Algebra", time.Now(), "a@x.io")

	got, err := store.Groups().GetByID(ctx, group.ID)
	require.NoError(t, err)
	got.Members[0] = "mallory@x.io"

	again, err := store.Groups().GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.io"}, again.Members)
}

func TestTasks_AppendToggleReplace(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	group := newGroup(t, store, "Algebra", time.Now(), "a@x.io")

	now := time.Now().Truncate(time.Millisecond)
	task := model.Task{ID: "1", Text: "Read", CreatedBy: "a@x.io", CreatedAt: now, Deadline: now.Add(time.Hour)}

	require.NoError(t, store.Tasks().Append(ctx, group.ID, &task))
	require.NoError(t, store.Tasks().Append(ctx, group.ID, &task))

	tasks, err := store.Tasks().ListByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	toggled, err := store.Tasks().Toggle(ctx, group.ID, "1")
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	// task still carries the pre-toggle value, so the remove misses and
	// nothing is written
	updated := task
	updated.Text = "Read twice"
	matched, err := store.Tasks().Replace(ctx, group.ID, task, updated)
	require.NoError(t, err)
	assert.False(t, matched)

	tasks, err = store.Tasks().ListByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Read", tasks[0].Text)
	assert.True(t, tasks[0].Completed)

	matched, err = store.Tasks().Replace(ctx, group.ID, tasks[0], updated)
	require.NoError(t, err)
	assert.True(t, matched)

	tasks, err = store.Tasks().ListByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Read twice", tasks[0].Text)
}

func TestTasks_ToggleMissingTask(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	group := newGroup(t, store, "Algebra", time.Now(), "a@x.io")

	_, err := store.Tasks().Toggle(ctx, group.ID, "nope")
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	_, err = store.Tasks().Toggle(ctx, "missing", "nope")
	assert.ErrorIs(t, err, repository.ErrGroupNotFound)
}

func TestUsers_CreateRejectsDuplicateEmail(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &model.User{Email: "a@x.io"}))
	err := store.Users().Create(ctx, &model.User{Email: "a@x.io"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	user, err := store.Users().FindByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	require.NotNil(t, user)

	missing, err := store.Users().FindByEmail(ctx, "b@x.io")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
