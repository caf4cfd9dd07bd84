package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"learnly/internal/model"
	"learnly/internal/repository"
	"learnly/internal/session"

	"go.uber.org/zap"
)

// GroupData is the combined read behind the group page.
type GroupData struct {
	Group   *model.Group `json:"group"`
	Tasks   []model.Task `json:"tasks"`
	Members []string     `json:"members"`
}

type TaskService struct {
	groups repository.GroupStore
	tasks  repository.TaskStore
	ids    *TaskIDGenerator
	cfg    Config
	log    *zap.Logger
}

func NewTaskService(groups repository.GroupStore, tasks repository.TaskStore, cfg Config, log *zap.Logger) *TaskService {
	return &TaskService{
		groups: groups,
		tasks:  tasks,
		ids:    &TaskIDGenerator{},
		cfg:    cfg.withDefaults(),
		log:    log,
	}
}

// AddTask appends a new open task to the group.
func (s *TaskService) AddTask(ctx context.Context, sess session.Session, groupID, text string, deadline time.Time) (*model.Task, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	text = strings.TrimSpace(text)
	switch {
	case groupID == "":
		return nil, invalid("group id is required")
	case text == "":
		return nil, invalid("task text is required")
	case deadline.IsZero():
		return nil, invalid("deadline is required")
	}

	if err := s.requireMember(ctx, sess, groupID); err != nil {
		return nil, err
	}

	now := s.cfg.now()
	task := &model.Task{
		ID:        s.ids.Next(now),
		Text:      text,
		Completed: false,
		CreatedBy: sess.Identity,
		CreatedAt: now,
		Deadline:  deadline.Truncate(time.Millisecond),
	}
	if err := s.tasks.Append(ctx, groupID, task); err != nil {
		s.log.Error("add task failed", zap.String("group_id", groupID), zap.String("identity", sess.Identity), zap.Error(err))
		return nil, backendErr(err, "add task")
	}

	s.log.Info("task added",
		zap.String("group_id", groupID),
		zap.String("task_id", task.ID),
		zap.String("identity", sess.Identity),
	)
	out := task.In(s.cfg.Location)
	return &out, nil
}

// ToggleTaskCompletion inverts the completion flag of task.
//
// In atomic mode only task.ID is used. In legacy mode task must be a full
// value equal to the stored element field by field; a stale value writes
// nothing and the stored task is returned as it is.
func (s *TaskService) ToggleTaskCompletion(ctx context.Context, sess session.Session, groupID string, task model.Task) (*model.Task, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, invalid("group id is required")
	}
	if strings.TrimSpace(task.ID) == "" {
		return nil, invalid("task id is required")
	}
	if s.cfg.ToggleMode == ToggleLegacy {
		if err := validateFullTask(task); err != nil {
			return nil, err
		}
	}

	if err := s.requireMember(ctx, sess, groupID); err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("group_id", groupID),
		zap.String("task_id", task.ID),
		zap.String("identity", sess.Identity),
		zap.String("mode", string(s.cfg.ToggleMode)),
	}

	var toggled model.Task
	switch s.cfg.ToggleMode {
	case ToggleLegacy:
		updated := task
		updated.Completed = !task.Completed
		matched, err := s.tasks.Replace(ctx, groupID, task, updated)
		if err != nil {
			s.log.Error("toggle task failed", append(fields, zap.Error(err))...)
			return nil, backendErr(err, "toggle task")
		}
		if !matched {
			s.log.Warn("toggle matched no stored task", fields...)
			stored, err := s.storedTask(ctx, groupID, task.ID)
			if err != nil {
				return nil, backendErr(err, "toggle task")
			}
			out := stored.In(s.cfg.Location)
			return &out, nil
		}
		toggled = updated
	default:
		stored, err := s.tasks.Toggle(ctx, groupID, task.ID)
		if err != nil {
			s.log.Error("toggle task failed", append(fields, zap.Error(err))...)
			return nil, backendErr(err, "toggle task")
		}
		toggled = *stored
	}

	s.log.Info("task toggled", append(fields, zap.Bool("completed", toggled.Completed))...)
	out := toggled.In(s.cfg.Location)
	return &out, nil
}

// ListTasks returns the group's tasks in stored order.
func (s *TaskService) ListTasks(ctx context.Context, sess session.Session, groupID string) ([]model.Task, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, invalid("group id is required")
	}

	if err := s.requireMember(ctx, sess, groupID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByGroup(ctx, groupID)
	if err != nil {
		s.log.Error("list tasks failed", zap.String("group_id", groupID), zap.Error(err))
		return nil, backendErr(err, "list tasks")
	}
	return localizeTasks(tasks, s.cfg.Location), nil
}

// FetchGroupData reads the group, its tasks and members in one go. A group
// without a name is shown as DefaultGroupName.
func (s *TaskService) FetchGroupData(ctx context.Context, sess session.Session, groupID string) (*GroupData, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, invalid("group id is required")
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			s.log.Warn("fetch group data: group not found", zap.String("group_id", groupID))
		} else {
			s.log.Error("fetch group data failed", zap.String("group_id", groupID), zap.Error(err))
		}
		return nil, backendErr(err, "fetch group data")
	}
	if !group.HasMember(sess.Identity) {
		s.log.Warn("fetch group data: not a member", zap.String("group_id", groupID), zap.String("identity", sess.Identity))
		return nil, ErrNotMember
	}

	out := localizeGroup(group, s.cfg.Location)
	if strings.TrimSpace(out.Name) == "" {
		out.Name = model.DefaultGroupName
	}
	return &GroupData{
		Group:   out,
		Tasks:   out.Tasks,
		Members: out.Members,
	}, nil
}

// validateFullTask rejects values that cannot equal any stored task
func validateFullTask(task model.Task) error {
	switch {
	case strings.TrimSpace(task.Text) == "":
		return invalid("task text is required")
	case strings.TrimSpace(task.CreatedBy) == "":
		return invalid("task createdBy is required")
	case task.CreatedAt.IsZero():
		return invalid("task createdAt is required")
	case task.Deadline.IsZero():
		return invalid("task deadline is required")
	}
	return nil
}

func (s *TaskService) storedTask(ctx context.Context, groupID, taskID string) (*model.Task, error) {
	tasks, err := s.tasks.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i], nil
		}
	}
	return nil, repository.ErrTaskNotFound
}

// requireMember distinguishes a missing group from a group the caller has
// not joined.
func (s *TaskService) requireMember(ctx context.Context, sess session.Session, groupID string) error {
	ok, err := s.groups.IsMember(ctx, groupID, sess.Identity)
	if err != nil {
		return backendErr(err, "check membership")
	}
	if ok {
		return nil
	}

	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			s.log.Warn("group not found", zap.String("group_id", groupID), zap.String("identity", sess.Identity))
		}
		return backendErr(err, "check membership")
	}
	s.log.Warn("caller is not a member", zap.String("group_id", groupID), zap.String("identity", sess.Identity))
	return ErrNotMember
}
