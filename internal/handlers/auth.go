package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/zoecc/passbox-api/internal/middleware"
	"github.com/zoecc/passbox-api/internal/services"
	"github.com/zoecc/passbox-api/pkg/dto"
)

const minPasswordLength = 6

type AuthHandler struct {
	authService AuthServiceInterface
	jwtService  JWTServiceInterface
}

func NewAuthHandler(authService AuthServiceInterface, jwtService JWTServiceInterface) *AuthHandler {
	return &AuthHandler{authService: authService, jwtService: jwtService}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" {
		c.BadRequest("username is required")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		c.BadRequest("a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		c.BadRequest("password must be at least 6 characters")
		return
	}

	user, err := h.authService.Register(context.Background(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			c.BadRequest("username already taken")
		case errors.Is(err, services.ErrEmailTaken):
			c.BadRequest("email already registered")
		default:
			c.InternalServerError("failed to register")
		}
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		c.InternalServerError("failed to issue token")
		return
	}

	_ = c.JSON(201, dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(h.jwtService.Expiry().Seconds()),
		User: dto.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		c.BadRequest("username and password are required")
		return
	}

	user, err := h.authService.Login(context.Background(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Unauthorized("invalid username or password")
			return
		}
		c.InternalServerError("failed to log in")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		c.InternalServerError("failed to issue token")
		return
	}

	_ = c.JSON(200, dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(h.jwtService.Expiry().Seconds()),
		User: dto.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	})
}

func (h *AuthHandler) Me(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.authService.GetByID(context.Background(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to fetch user")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
