package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnly/internal/auth"
	"learnly/internal/handler"
	"learnly/internal/middleware"
	"learnly/internal/model"
	"learnly/internal/service"
	"learnly/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Мок сервиса аутентификации
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) CreateAccount(ctx context.Context, email, password, name string) (*model.User, string, error) {
	args := m.Called(ctx, email, password, name)
	user := args.Get(0)
	if user == nil {
		return nil, "", args.Error(2)
	}
	return user.(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	user := args.Get(0)
	if user == nil {
		return nil, "", args.Error(2)
	}
	return user.(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, sess session.Session) (*model.User, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func setupAuthTest() (*gin.Engine, *MockAuthService) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockSvc := new(MockAuthService)
	authHandler := handler.NewAuthHandler(mockSvc)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	authorized := r.Group("/")
	authorized.Use(func(c *gin.Context) {
		c.Set(middleware.TokenKey, "raw-token")
		c.Next()
	}, withSession(alice))
	authorized.POST("/logout", authHandler.Logout)
	authorized.GET("/me", authHandler.Me)

	return r, mockSvc
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	router, mockSvc := setupAuthTest()
	user := &model.User{ID: "u1", Email: "test@example.com", Name: "Test User"}
	mockSvc.On("CreateAccount", mock.Anything, "test@example.com", "password123", "Test User").Return(user, "jwt", nil)

	// Act
	resp := postJSON(t, router, "/register", handler.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "jwt", response.Token)
	assert.Equal(t, "u1", response.User.ID)
	assert.Equal(t, "Test User", response.User.Name)

	mockSvc.AssertExpectations(t)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	router, mockSvc := setupAuthTest()
	mockSvc.On("CreateAccount", mock.Anything, "existing@example.com", "password123", "").Return(nil, "", auth.ErrEmailExists)

	resp := postJSON(t, router, "/register", handler.RegisterRequest{
		Email:    "existing@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	body := decodeError(t, resp)
	assert.Equal(t, "User already exists", body.Error)
	assert.Equal(t, auth.CodeEmailInUse, body.Code)
	mockSvc.AssertExpectations(t)
}

func TestRegister_ShortPassword(t *testing.T) {
	router, mockSvc := setupAuthTest()

	// Сервис не должен вызываться
	resp := postJSON(t, router, "/register", handler.RegisterRequest{
		Email:    "test@example.com",
		Password: "123",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "password must be at least 6 characters", decodeError(t, resp).Error)
	mockSvc.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	router, mockSvc := setupAuthTest()
	user := &model.User{ID: "u1", Email: "test@example.com", Name: "Test User"}
	mockSvc.On("SignIn", mock.Anything, "test@example.com", "password123").Return(user, "jwt", nil)

	resp := postJSON(t, router, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var response handler.AuthResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "jwt", response.Token)
	assert.Equal(t, user.Email, response.User.Email)
	mockSvc.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, mockSvc := setupAuthTest()
	mockSvc.On("SignIn", mock.Anything, "test@example.com", "wrong_password").Return(nil, "", auth.ErrWrongPassword)

	resp := postJSON(t, router, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong_password",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, auth.CodeWrongPassword, decodeError(t, resp).Code)
	mockSvc.AssertExpectations(t)
}

func TestLogin_UserNotFound(t *testing.T) {
	router, mockSvc := setupAuthTest()
	mockSvc.On("SignIn", mock.Anything, "nonexistent@example.com", "password123").Return(nil, "", auth.ErrUserNotFound)

	resp := postJSON(t, router, "/login", handler.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, auth.CodeUserNotFound, decodeError(t, resp).Code)
	mockSvc.AssertExpectations(t)
}

func TestLogin_BackendFailure(t *testing.T) {
	router, mockSvc := setupAuthTest()
	mockSvc.On("SignIn", mock.Anything, "test@example.com", "password123").
		Return(nil, "", errors.Wrap(service.ErrBackend, "sign in"))

	resp := postJSON(t, router, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, auth.CodeOther, decodeError(t, resp).Code)
}

func TestLogout_RevokesCurrentToken(t *testing.T) {
	router, mockSvc := setupAuthTest()
	mockSvc.On("SignOut", mock.Anything, "raw-token").Return(nil)

	req, _ := http.NewRequest("POST", "/logout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestMe_ReturnsStoredAccount(t *testing.T) {
	router, mockSvc := setupAuthTest()
	user := &model.User{ID: alice.UserID, Email: alice.Identity, Name: "Alice"}
	mockSvc.On("CurrentUser", mock.Anything, alice).Return(user, nil)

	req, _ := http.NewRequest("GET", "/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.UserResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, handler.UserResponse{ID: alice.UserID, Email: alice.Identity, Name: "Alice"}, body)
	mockSvc.AssertExpectations(t)
}

func TestMe_AccountMissing(t *testing.T) {
	router, mockSvc := setupAuthTest()
	mockSvc.On("CurrentUser", mock.Anything, alice).Return(nil, auth.ErrUserNotFound)

	req, _ := http.NewRequest("GET", "/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, auth.CodeUserNotFound, decodeError(t, resp).Code)
}
