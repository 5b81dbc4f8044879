package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
)

// AuthMiddleware validates the bearer access token and checks that the
// session it references is still alive.
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			// Fall back to the access_token cookie set at sign-in.
			token, _ = c.Cookie("access_token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Authorization required"})
			c.Abort()
			return
		}

		claims, err := tokenSvc.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_TOKEN", "message": "Invalid or expired token"})
			c.Abort()
			return
		}

		if claims.SessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_TOKEN", "message": "Token carries no session"})
			c.Abort()
			return
		}

		session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "SESSION_NOT_FOUND", "message": "Session no longer exists"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR", "message": "Session lookup failed"})
			}
			c.Abort()
			return
		}
		if session.IsExpired(time.Now()) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "SESSION_NOT_FOUND", "message": "Session has expired"})
			c.Abort()
			return
		}

		// Session must belong to the account named in the token.
		if session.AccountID != claims.AccountID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Session account mismatch"})
			c.Abort()
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("account_role", string(claims.Role))
		c.Set("session_id", claims.SessionID)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
