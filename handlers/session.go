package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eclatdining/eclat-api/internal/admins"
	"github.com/eclatdining/eclat-api/internal/sessions"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/eclatdining/eclat-api/internal/tokens"
	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// LoginRequest is the body of POST /admin/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionHandler issues and revokes admin access tokens.
type SessionHandler struct {
	admins      *admins.Service
	revocations *sessions.Revocations
	secret      string
	ttl         time.Duration
}

// NewSessionHandler builds the handler; rev may be nil, in which case logout
// only succeeds without revoking anything.
func NewSessionHandler(a *admins.Service, rev *sessions.Revocations, secret string, ttl time.Duration) *SessionHandler {
	return &SessionHandler{admins: a, revocations: rev, secret: secret, ttl: ttl}
}

// Register adds login and logout. guards must authenticate the logout call.
func (h *SessionHandler) Register(r gin.IRouter, guards ...gin.HandlerFunc) {
	r.POST("/admin/login", h.Login)
	r.POST("/admin/logout", chain(guards, h.Logout)...)
}

// Login checks the credentials against the adminuser collection and returns
// a bearer token carrying the admin's role.
func (h *SessionHandler) Login(c *gin.Context) {
	req, ok := bindEntity[LoginRequest](c)
	if !ok {
		return
	}
	if h.secret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin login not configured"})
		return
	}
	u, err := h.admins.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, admins.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	case errors.Is(err, store.ErrReadFailure):
		logger.Errorf("admin login %s: %v", req.Email, err)
		fallthrough
	case errors.Is(err, store.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not available"})
		return
	case err != nil:
		logger.Errorf("admin login %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.secret, u, h.ttl)
	if err != nil {
		logger.Errorf("sign access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	logger.Infof("admin login: %s (%s)", u.Email, u.Role)
	c.JSON(http.StatusOK, gin.H{"access_token": access, "expires_in": int(h.ttl.Seconds()), "role": u.Role})
}

// Logout revokes the presented bearer token until its own expiry.
func (h *SessionHandler) Logout(c *gin.Context) {
	raw := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
		return
	}
	ttl := h.ttl
	if v, ok := c.Get("claims"); ok {
		if cm, ok2 := v.(map[string]interface{}); ok2 {
			if exp, ok3 := cm["exp"].(float64); ok3 {
				ttl = time.Until(time.Unix(int64(exp), 0))
			}
		}
	}
	if err := h.revocations.Revoke(c.Request.Context(), raw, ttl); err != nil {
		logger.Errorf("revoke token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
