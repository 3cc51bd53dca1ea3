package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zoecc/passbox-api/internal/middleware"
	"github.com/zoecc/passbox-api/internal/models"
	"github.com/zoecc/passbox-api/internal/services"
	"github.com/zoecc/passbox-api/pkg/dto"
	"github.com/zoecc/passbox-api/tests/testutil"
)

func newTestJWTService() *services.JWTService {
	return services.NewJWTService("test-secret-key", time.Hour)
}

func generateTestToken(t *testing.T, jwtSvc *services.JWTService, userID int64) string {
	t.Helper()
	token, err := jwtSvc.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func newAuthApp(authService AuthServiceInterface, jwtSvc *services.JWTService) http.Handler {
	handler := NewAuthHandler(authService, jwtSvc)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)
	app.Post("/auth/login", handler.Login)

	protected := app.Group("")
	protected.Use(middleware.Auth(jwtSvc))
	protected.Get("/auth/me", handler.Me)

	return app
}

func testUser() *models.User {
	return &models.User{
		ID:        1,
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: time.Now(),
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	jwtSvc := newTestJWTService()
	client := testutil.NewHTTPTestClient(t, newAuthApp(mockAuth, jwtSvc))

	user := testUser()
	mockAuth.On("Register", mock.Anything, "alice", "alice@example.com", "secret123").
		Return(user, nil)

	rec := client.POST("/auth/register", dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.AuthResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	client := testutil.NewHTTPTestClient(t, newAuthApp(mockAuth, newTestJWTService()))

	cases := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"missing username", dto.RegisterRequest{Email: "a@example.com", Password: "secret123"}},
		{"missing email", dto.RegisterRequest{Username: "alice", Password: "secret123"}},
		{"bad email", dto.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "secret123"}},
		{"short password", dto.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := client.POST("/auth/register", tc.req, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	mockAuth.AssertNotCalled(t, "Register")
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	client := testutil.NewHTTPTestClient(t, newAuthApp(mockAuth, newTestJWTService()))

	mockAuth.On("Register", mock.Anything, "alice", "alice@example.com", "secret123").
		Return(nil, services.ErrUsernameTaken)

	rec := client.POST("/auth/register", dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already taken")
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	client := testutil.NewHTTPTestClient(t, newAuthApp(mockAuth, newTestJWTService()))

	mockAuth.On("Login", mock.Anything, "alice", "secret123").Return(testUser(), nil)

	rec := client.POST("/auth/login", dto.LoginRequest{Username: "alice", Password: "secret123"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AuthResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(1), resp.User.ID)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	client := testutil.NewHTTPTestClient(t, newAuthApp(mockAuth, newTestJWTService()))

	mockAuth.On("Login", mock.Anything, "alice", "wrong").
		Return(nil, services.ErrInvalidCredentials)

	rec := client.POST("/auth/login", dto.LoginRequest{Username: "alice", Password: "wrong"}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	jwtSvc := newTestJWTService()
	app := newAuthApp(mockAuth, jwtSvc)

	mockAuth.On("GetByID", mock.Anything, int64(1)).Return(testUser(), nil)

	token := generateTestToken(t, jwtSvc, 1)
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.UserResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Me_StorageError(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	jwtSvc := newTestJWTService()
	client := testutil.NewHTTPTestClient(t, newAuthApp(mockAuth, jwtSvc))

	mockAuth.On("GetByID", mock.Anything, int64(1)).
		Return(nil, errors.New("connection refused"))

	rec := client.GET("/auth/me", authHeaders(t, jwtSvc, 1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Me_UnknownUser(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	jwtSvc := newTestJWTService()
	client := testutil.NewHTTPTestClient(t, newAuthApp(mockAuth, jwtSvc))

	mockAuth.On("GetByID", mock.Anything, int64(1)).
		Return(nil, services.ErrUserNotFound)

	rec := client.GET("/auth/me", authHeaders(t, jwtSvc, 1))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	mockAuth := new(testutil.MockAuthService)
	client := testutil.NewHTTPTestClient(t, newAuthApp(mockAuth, newTestJWTService()))

	rec := client.GET("/auth/me", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockAuth.AssertNotCalled(t, "GetByID")
}
