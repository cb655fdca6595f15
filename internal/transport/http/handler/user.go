package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
	"github.com/ErlanBelekov/task-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	RequestVerification(ctx context.Context, email string) error
	ValidateCode(ctx context.Context, email, code string) error
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type UserHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewUserHandler(authUsecase authUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "user_handler"),
	}
}

type sendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// verificationCode accepts the code as either a JSON number or a string.
type verificationCode string

func (v *verificationCode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = verificationCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = verificationCode(n.String())
	return nil
}

type validateCodeRequest struct {
	Email            string           `json:"email"`
	VerificationCode verificationCode `json:"verificationCode"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userResponse is the public projection of a user; the password hash never leaves the service.
type userResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// POST /api/users/send-verification-code
func (h *UserHandler) SendVerificationCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authUsecase.RequestVerification(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
		case errors.Is(err, domain.ErrDeliveryFailed):
			h.logger.ErrorContext(c.Request.Context(), "send verification code", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errDeliveryFailed})
		default:
			h.logger.ErrorContext(c.Request.Context(), "request verification", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// POST /api/users/validate-code
func (h *UserHandler) ValidateCode(c *gin.Context) {
	var req validateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCode})
		return
	}

	err := h.authUsecase.ValidateCode(c.Request.Context(), req.Email, string(req.VerificationCode))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCode})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "validate code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code is valid"})
}

// POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissingFields})
		case errors.Is(err, domain.ErrNotVerified):
			c.JSON(http.StatusBadRequest, gin.H{"error": errNotVerified})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
		default:
			h.logger.ErrorContext(c.Request.Context(), "register user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"user":    toUserResponse(user),
	})
}

// POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUserNotFound})
		case errors.Is(err, domain.ErrUnverified):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnverified})
		case errors.Is(err, domain.ErrBadCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errBadCredentials})
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GET /api/users/verify-token
// Runs behind the Auth middleware, which has already rejected bad tokens.
func (h *UserHandler) VerifyToken(c *gin.Context) {
	session, ok := c.Get("session")
	s, isSession := session.(*domain.Session)
	if !ok || !isSession {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": errUnauthorized})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"userId": s.UserID,
		"name":   s.Name,
		"email":  s.Email,
	})
}
