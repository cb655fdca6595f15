package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/task-api/internal/domain"
	ctxlog "github.com/ErlanBelekov/task-api/internal/log"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// TokenVerifier is satisfied by usecase.AuthUsecase.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (*domain.Session, error)
}

// Auth validates a Bearer JWT and sets "userID" (the token subject) and
// "session" in the gin context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, rawToken, found := strings.Cut(c.GetHeader("Authorization"), " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || rawToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"valid": false, "error": errUnauthorized})
			return
		}

		session, err := verifier.VerifyToken(c.Request.Context(), strings.TrimSpace(rawToken))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"valid": false, "error": errUnauthorized})
			return
		}

		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), session.Subject))
		c.Set("userID", session.Subject)
		c.Set("session", session)
		c.Next()
	}
}
