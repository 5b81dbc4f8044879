package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/authsvc/domain"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// AuthHandlers handles authentication HTTP requests. Expected 4xx outcomes
// carry a stable machine-checkable reason plus a short human message;
// infrastructure failures map to 500 and are logged.
type AuthHandlers struct {
	authSvc    domain.AuthService
	resetSvc   domain.PasswordResetService
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.Logger
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(authSvc domain.AuthService, resetSvc domain.PasswordResetService, accessTTL, refreshTTL time.Duration, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authSvc:    authSvc,
		resetSvc:   resetSvc,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// RegisterRequest represents a signup request.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignInRequest represents a sign-in request.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request. The token may arrive in
// the body or in the refresh_token cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest represents a forgot-password request.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyTokenRequest represents a verification token check.
type VerifyTokenRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Token   string `json:"token" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// ResetPasswordRequest represents a password reset request.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func fail(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{"error": kind, "message": message})
}

// Register handles account signup.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	account, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password, domain.RoleCustomer)
	if err != nil {
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			fail(c, http.StatusConflict, "ACCOUNT_ALREADY_EXISTS", "An account with this email already exists")
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"id":    account.ID,
			"email": account.Email,
			"role":  account.Role,
		},
	})
}

// SignIn handles credential sign-in. It issues the token pair both in the
// response body and as http-only cookies.
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.authSvc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, domain.ErrWrongAuthMethod):
			fail(c, http.StatusUnauthorized, "WRONG_AUTH_METHOD", "This account signs in through an external provider")
		case errors.Is(err, domain.ErrTooManyRequests):
			fail(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many sign-in attempts, try again later")
		default:
			h.logger.Error("sign-in failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Sign-in failed")
		}
		return
	}

	h.setTokenCookies(c, result.Tokens)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.Tokens.AccessToken,
			"refresh_token": result.Tokens.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"role":          result.Account.Role,
		},
	})
}

// Refresh handles token refresh. The refresh token is read from the body
// first, then from the refresh_token cookie.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(refreshCookie)
	}
	if token == "" {
		fail(c, http.StatusUnauthorized, "MISSING_REFRESH_TOKEN", "No refresh token supplied")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRefreshToken):
			fail(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
		case errors.Is(err, domain.ErrMissingPayload):
			fail(c, http.StatusUnauthorized, "MISSING_PAYLOAD", "Refresh token carries no session")
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
			fail(c, http.StatusUnauthorized, "SESSION_NOT_FOUND", "Session has expired, sign in again")
		case errors.Is(err, domain.ErrAccountNotFound):
			fail(c, http.StatusUnauthorized, "ACCOUNT_NOT_FOUND", "Account no longer exists")
		default:
			h.logger.Error("refresh failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Token refresh failed")
		}
		return
	}

	h.setTokenCookies(c, result.Tokens)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.Tokens.AccessToken,
			"refresh_token": result.Tokens.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
		},
	})
}

// ForgotPassword handles a reset-code request. It returns a generic success
// message whether or not delivery succeeds synchronously.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	err := h.resetSvc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			fail(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "No account with this email")
		case errors.Is(err, domain.ErrTooManyRequests):
			fail(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Reset already requested, try again later")
		default:
			h.logger.Error("forgot-password failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "If the account exists, a reset code has been sent"},
	})
}

// VerifyToken handles a verification token check. No side effect: the token
// stays valid until reset-password consumes it.
func (h *AuthHandlers) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	err := h.resetSvc.VerifyToken(c.Request.Context(), req.Email, req.Token, domain.TokenPurpose(req.Purpose))
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalidOrExpired) {
			fail(c, http.StatusBadRequest, "TOKEN_INVALID_OR_EXPIRED", "Token is invalid or expired")
			return
		}
		h.logger.Error("verify-token failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Token is valid"},
	})
}

// ResetPassword handles a password change through a reset token.
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	err := h.resetSvc.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalidOrExpired):
			fail(c, http.StatusBadRequest, "TOKEN_INVALID_OR_EXPIRED", "Token is invalid or expired")
		case errors.Is(err, domain.ErrAccountNotFound):
			fail(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "No account with this email")
		default:
			h.logger.Error("reset-password failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reset password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Password has been reset"},
	})
}

// Me returns the authenticated account's profile.
func (h *AuthHandlers) Me(c *gin.Context) {
	accountID, exists := c.Get("account_id")
	if !exists {
		fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account not found in context")
		return
	}

	account, err := h.authSvc.GetAccount(c.Request.Context(), accountID.(string))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			fail(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found")
			return
		}
		h.logger.Error("profile lookup failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":             account.ID,
			"email":          account.Email,
			"role":           account.Role,
			"email_verified": account.EmailVerified,
			"external":       account.IsExternal(),
			"created_at":     account.CreatedAt,
		},
	})
}

// Logout deletes the current session and clears the token cookies.
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		fail(c, http.StatusBadRequest, "MISSING_SESSION", "Session not found in context")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID.(string)); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Logout failed")
		return
	}

	h.clearTokenCookies(c)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Logged out"},
	})
}

// setTokenCookies mirrors the token pair as same-site, http-only cookies
// with max-age equal to each token's ttl.
func (h *AuthHandlers) setTokenCookies(c *gin.Context, tokens domain.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookie, tokens.AccessToken, int(h.accessTTL.Seconds()), "/", "", true, true)
	c.SetCookie(refreshCookie, tokens.RefreshToken, int(h.refreshTTL.Seconds()), "/", "", true, true)
}

func (h *AuthHandlers) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookie, "", -1, "/", "", true, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", true, true)
}
