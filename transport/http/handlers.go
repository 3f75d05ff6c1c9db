package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegis-auth/aegis/core"
	"github.com/aegis-auth/aegis/service"
)

// TokenCookieName is the cookie carrying the session token
const TokenCookieName = "access_token"

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// errorStatus maps core errors to transport status codes
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrMalformedInput):
		return http.StatusUnprocessableEntity, "Malformed input"
	case errors.Is(err, core.ErrAlreadyExists):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect credentials"
	case errors.Is(err, core.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	default:
		// Internal detail stays out of the response body
		return http.StatusInternalServerError, "Unexpected error"
	}
}

// Signup handles new identity registration
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required"`
		Password      string `json:"password" binding:"required"`
		RequiresTwoFA bool   `json:"requires2FA"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.authService.Signup(c.Request.Context(), req.Email, req.Password, req.RequiresTwoFA); err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// Login handles the credential check. When a second factor is required the
// response is 206 with the attempt id; the code never appears in the
// response.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if result.TwoFARequired {
		c.JSON(http.StatusPartialContent, gin.H{
			"message":        "2FA required",
			"loginAttemptId": result.AttemptID.Secret().Expose(),
		})
		return
	}

	setTokenCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{"token": result.Token.Expose()})
}

// VerifyTwoFA consumes an outstanding challenge and returns a session token
func (h *AuthHandlers) VerifyTwoFA(c *gin.Context) {
	var req struct {
		Email          string `json:"email" binding:"required"`
		LoginAttemptID string `json:"loginAttemptId" binding:"required"`
		TwoFACode      string `json:"2FACode" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := h.authService.VerifyTwoFA(c.Request.Context(), req.Email, req.LoginAttemptID, req.TwoFACode)
	if err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token.Expose()})
}

// Logout bans the session token and clears the cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	token, err := c.Cookie(TokenCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// VerifyToken reports whether a token is usable
func (h *AuthHandlers) VerifyToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, err := h.authService.ValidateToken(c.Request.Context(), req.Token); err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// Me returns the identity bound to the validated token
func (h *AuthHandlers) Me(c *gin.Context) {
	email, exists := c.Get("userEmail")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": email})
}

func setTokenCookie(c *gin.Context, token core.Secret) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookieName, token.Expose(), 0, "/", "", false, true)
}

func clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookieName, "", -1, "/", "", false, true)
}
