// Package http contains the gin handlers for the REST surface. Handlers
// bind and validate input, call the service layer and translate business
// errors onto HTTP statuses.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/service"
)

// AuthHandler serves signup, verification and login.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Department string `json:"department" binding:"omitempty,max=100"`
	Semester   string `json:"semester" binding:"omitempty,max=50"`
}

// Register creates an unverified account and sends the verification OTP.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Department, req.Semester)
	if err != nil {
		logCtx := logrus.WithField("email", req.Email)
		switch {
		case errors.Is(err, service.ErrValidation):
			logCtx.WithError(err).Warn("Handler.Register: Validation failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRegistrationFailed):
			logCtx.WithError(err).Warn("Handler.Register: Registration failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logCtx.WithError(err).Error("Handler.Register: Internal error during registration")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed due to server error"})
		}
		return
	}

	logrus.WithField("user_id", user.ID).Info("Handler.Register: User registered, awaiting verification")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered. Check your email for the verification code.",
		"user_id": user.ID,
	})
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyOTP activates the account when the emailed code matches.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: email and 6-digit code required"})
		return
	}

	if err := h.authService.VerifyOTP(c.Request.Context(), req.Email, req.Code); err != nil {
		logCtx := logrus.WithField("email", req.Email)
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAuthenticationFailed):
			logCtx.WithError(err).Warn("Handler.VerifyOTP: Verification failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			logCtx.WithError(err).Error("Handler.VerifyOTP: Internal error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed due to server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified. You can now log in."})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login returns a signed token for a verified account.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: email and password required"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logCtx := logrus.WithField("email", req.Email)
		if errors.Is(err, service.ErrAuthenticationFailed) {
			logCtx.WithError(err).Warn("Handler.Login: Authentication failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		} else {
			logCtx.WithError(err).Error("Handler.Login: Internal error during login")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed due to server error"})
		}
		return
	}

	logrus.WithField("user_id", user.ID).Info("Handler.Login: User logged in")
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.DisplayName(),
			"email": user.Email,
		},
	})
}
