package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"learnly/internal/auth"
	"learnly/internal/middleware"
	"learnly/internal/repository"
	"learnly/internal/service"
	"learnly/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError переводит ошибку сервиса в HTTP статус и код
func respondError(c *gin.Context, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "invalid-argument", strings.TrimSuffix(err.Error(), ": "+service.ErrValidation.Error())
	case errors.Is(err, repository.ErrGroupNotFound):
		return http.StatusNotFound, "not-found", "Invalid group ID"
	case errors.Is(err, repository.ErrTaskNotFound):
		return http.StatusNotFound, "not-found", "Task not found"
	case errors.Is(err, service.ErrNotMember):
		return http.StatusForbidden, "permission-denied", "You are not a member of this group"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "aborted", "Task was modified concurrently, try again"
	case errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict, auth.CodeEmailInUse, "User already exists"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusUnauthorized, auth.CodeUserNotFound, "No account uses this email"
	case errors.Is(err, auth.ErrWrongPassword):
		return http.StatusUnauthorized, auth.CodeWrongPassword, "Wrong password"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenRevoked), errors.Is(err, session.ErrNoIdentity):
		return http.StatusUnauthorized, "unauthenticated", "Invalid or expired token"
	default:
		return http.StatusInternalServerError, auth.CodeOther, "Internal server error"
	}
}

// respondBindError reports which request fields failed validation
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: "invalid-argument"})
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: strings.Join(msgs, "; "), Code: "invalid-argument"})
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// currentSession достает сессию, установленную JWT middleware
func currentSession(c *gin.Context) (session.Session, bool) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated", Code: "unauthenticated"})
		return session.Session{}, false
	}
	return sess, true
}
