package handler

import (
	"context"
	"net/http"

	"learnly/internal/model"
	"learnly/internal/service"
	"learnly/internal/session"

	"github.com/gin-gonic/gin"
)

type GroupService interface {
	CreateGroup(ctx context.Context, sess session.Session, name, description string) (*model.Group, error)
	ListGroupsFor(ctx context.Context, sess session.Session) ([]model.Group, error)
	GetGroup(ctx context.Context, sess session.Session, groupID string) (*model.Group, error)
	JoinGroup(ctx context.Context, sess session.Session, groupID string) (*model.Group, error)
}

type GroupDataService interface {
	FetchGroupData(ctx context.Context, sess session.Session, groupID string) (*service.GroupData, error)
}

type GroupHandler struct {
	groups GroupService
	data   GroupDataService
}

func NewGroupHandler(groups GroupService, data GroupDataService) *GroupHandler {
	return &GroupHandler{groups: groups, data: data}
}

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// Create создает группу, создатель становится ее единственным участником
func (h *GroupHandler) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), sess, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GetAll возвращает группы, в которых состоит пользователь
func (h *GroupHandler) GetAll(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	groups, err := h.groups.ListGroupsFor(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) GetByID(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	group, err := h.groups.GetGroup(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// Join добавляет пользователя в группу; повторный вызов ничего не меняет
func (h *GroupHandler) Join(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	group, err := h.groups.JoinGroup(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// Data возвращает группу, задачи и участников одним ответом
func (h *GroupHandler) Data(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	data, err := h.data.FetchGroupData(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}
