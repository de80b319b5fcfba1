package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/xamad/smartfridge/internal/config"
	"github.com/xamad/smartfridge/internal/middleware"
)

// AuthHandler issues admin tokens for the household dashboard
type AuthHandler struct {
	cfg          *config.Config
	passwordHash []byte
}

// NewAuthHandler creates a new auth handler. The admin password is hashed
// once at startup so login compares against a bcrypt digest only.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	h := &AuthHandler{cfg: cfg}

	if cfg.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Warning: failed to hash admin password: %v", err)
		} else {
			h.passwordHash = hash
		}
	}

	return h
}

// LoginRequest is the login body
type LoginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the admin password for a JWT
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if h.passwordHash == nil {
		return Error(c, fiber.StatusServiceUnavailable, "admin password not configured")
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)); err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid password")
	}

	claims := middleware.JWTClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.cfg.JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to sign token")
	}

	return Success(c, fiber.Map{
		"token":      signed,
		"expires_in": int(h.cfg.JWTExpiry.Seconds()),
	})
}
