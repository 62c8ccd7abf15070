package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/smart-spa/internal/auth"
	"github.com/BruksfildServices01/smart-spa/internal/config"
	"github.com/BruksfildServices01/smart-spa/internal/models"
	"github.com/BruksfildServices01/smart-spa/internal/session"
	"github.com/BruksfildServices01/smart-spa/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	config   *config.Config
	verifier auth.CredentialVerifier
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, verifier auth.CredentialVerifier) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, verifier: verifier}
}

// --------- Requests ---------

// LoginRequest accepts an email address or a phone number as login.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	q := h.db.WithContext(c.Request.Context())
	email, isEmail := validators.NormalizeEmail(req.Login)
	phone, isPhone := validators.NormalizePhone(req.Login)
	switch {
	case isEmail:
		q = q.Where("LOWER(email) = ?", email)
	case isPhone:
		q = q.Where("phone = ?", phone)
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	var user models.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if !h.verifier.Verify(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	role, err := session.ParseRole(user.Role)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "unknown_role"})
		return
	}

	token, err := auth.IssueToken(h.config.JWTSecret, user.ID, role, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"phone":     user.Phone,
			"role":      role,
		},
		"token": token,
	})
}
