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

type GroupService struct {
	groups repository.GroupStore
	cfg    Config
	log    *zap.Logger
}

func NewGroupService(groups repository.GroupStore, cfg Config, log *zap.Logger) *GroupService {
	return &GroupService{groups: groups, cfg: cfg.withDefaults(), log: log}
}

// CreateGroup stores a new group whose only member is the caller.
func (s *GroupService) CreateGroup(ctx context.Context, sess session.Session, name, description string) (*model.Group, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("group name is required")
	}

	group := &model.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   sess.Identity,
		CreatedAt:   s.cfg.now(),
		Members:     []string{sess.Identity},
		Tasks:       []model.Task{},
	}
	if err := s.groups.Create(ctx, group); err != nil {
		s.log.Error("create group failed", zap.String("identity", sess.Identity), zap.Error(err))
		return nil, backendErr(err, "create group")
	}

	s.log.Info("group created", zap.String("group_id", group.ID), zap.String("identity", sess.Identity))
	return s.localize(group), nil
}

// ListGroupsFor returns the groups the caller belongs to, oldest first.
func (s *GroupService) ListGroupsFor(ctx context.Context, sess session.Session) ([]model.Group, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	groups, err := s.groups.ListByMember(ctx, sess.Identity)
	if err != nil {
		s.log.Error("list groups failed", zap.String("identity", sess.Identity), zap.Error(err))
		return nil, backendErr(err, "list groups")
	}

	out := make([]model.Group, 0, len(groups))
	for i := range groups {
		out = append(out, *s.localize(&groups[i]))
	}
	return out, nil
}

// GetGroup loads a group by id. Membership is not required so that a
// group can be previewed before joining.
func (s *GroupService) GetGroup(ctx context.Context, sess session.Session, groupID string) (*model.Group, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, invalid("group id is required")
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		s.logFailure("get group failed", groupID, sess, err)
		return nil, backendErr(err, "get group")
	}
	return s.localize(group), nil
}

// JoinGroup adds the caller to the member set. Joining twice is a no-op.
func (s *GroupService) JoinGroup(ctx context.Context, sess session.Session, groupID string) (*model.Group, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, invalid("group id is required")
	}

	if err := s.groups.AddMember(ctx, groupID, sess.Identity); err != nil {
		s.logFailure("join group failed", groupID, sess, err)
		return nil, backendErr(err, "join group")
	}
	s.log.Info("group joined", zap.String("group_id", groupID), zap.String("identity", sess.Identity))

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, backendErr(err, "reload group")
	}
	return s.localize(group), nil
}

func (s *GroupService) localize(g *model.Group) *model.Group {
	return localizeGroup(g, s.cfg.Location)
}

func (s *GroupService) logFailure(msg, groupID string, sess session.Session, err error) {
	fields := []zap.Field{zap.String("group_id", groupID), zap.String("identity", sess.Identity), zap.Error(err)}
	if errors.Is(err, repository.ErrGroupNotFound) {
		s.log.Warn(msg, fields...)
		return
	}
	s.log.Error(msg, fields...)
}

// localizeGroup fills empty collections and converts timestamps to loc.
func localizeGroup(g *model.Group, loc *time.Location) *model.Group {
	out := *g
	out.CreatedAt = g.CreatedAt.In(loc)
	out.Members = append([]string{}, g.Members...)
	out.Tasks = localizeTasks(g.Tasks, loc)
	return &out
}

func localizeTasks(tasks []model.Task, loc *time.Location) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.In(loc))
	}
	return out
}
