package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"learnly/internal/model"
	"learnly/internal/session"

	"github.com/gin-gonic/gin"
)

type TaskService interface {
	AddTask(ctx context.Context, sess session.Session, groupID, text string, deadline time.Time) (*model.Task, error)
	ToggleTaskCompletion(ctx context.Context, sess session.Session, groupID string, task model.Task) (*model.Task, error)
	ListTasks(ctx context.Context, sess session.Session, groupID string) ([]model.Task, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// TaskRequest представляет запрос на создание задачи
type TaskRequest struct {
	Text     string    `json:"text" binding:"required"`
	Deadline time.Time `json:"deadline" binding:"required"`
}

// ToggleRequest is the task value as the client last saw it. Only the
// legacy toggle mode reads fields other than the id.
type ToggleRequest struct {
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	Deadline  time.Time `json:"deadline"`
}

// Create добавляет задачу в конец списка группы
func (h *TaskHandler) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.tasks.AddTask(c.Request.Context(), sess, c.Param("id"), req.Text, req.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetAll возвращает задачи группы в порядке хранения
func (h *TaskHandler) GetAll(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Toggle переключает отметку о выполнении
func (h *TaskHandler) Toggle(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	// Тело запроса не обязательно в режиме atomic
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	task := model.Task{
		ID:        c.Param("task_id"),
		Text:      req.Text,
		Completed: req.Completed,
		CreatedBy: req.CreatedBy,
		CreatedAt: req.CreatedAt,
		Deadline:  req.Deadline,
	}

	toggled, err := h.tasks.ToggleTaskCompletion(c.Request.Context(), sess, c.Param("id"), task)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toggled)
}
