package middleware

import (
	"errors"
	"net/http"
	"strings"

	"learnly/internal/auth"
	"learnly/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey  = "userID"
	SessionKey = "session"
	TokenKey   = "token"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// JWTAuthMiddleware resolves the bearer token into a session.Session.
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}
		token := strings.TrimSpace(parts[1])

		claims, err := tokens.ParseToken(token)
		if errors.Is(err, auth.ErrTokenRevoked) {
			abortUnauthorized(c, "Token has been signed out")
			return
		}
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		sess := session.New(claims.UserID, claims.Email, claims.ID)
		if err := sess.Validate(); err != nil {
			abortUnauthorized(c, "Invalid email in token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(SessionKey, sess)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// SessionFrom returns the session stored by JWTAuthMiddleware.
func SessionFrom(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": "unauthenticated"})
}
