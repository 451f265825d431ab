package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/service"
)

const (
	msgAuthRequired   = "Full authentication is required to access this resource"
	msgBadCredentials = "Bad credentials"
)

// Authenticator verifies a username and password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.APIUser, error)
}

// unauthorized is the 401 body: a single message field.
type unauthorized struct {
	Message string `json:"message"`
}

// RequireBasicAuth rejects requests without valid HTTP Basic credentials.
func RequireBasicAuth(auth Authenticator, realm string, log zerolog.Logger) gin.HandlerFunc {
	challenge := fmt.Sprintf("Basic realm=%q", realm)
	log = log.With().Str("component", "basic_auth").Logger()

	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			log.Warn().Str("ip", c.ClientIP()).Str("path", c.FullPath()).Msg(msgAuthRequired)
			abortUnauthorized(c, challenge, msgAuthRequired)
			return
		}

		if _, err := auth.Authenticate(c.Request.Context(), username, password); err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				log.Warn().Str("username", username).Str("ip", c.ClientIP()).Msg("Rejected credentials")
				abortUnauthorized(c, challenge, msgBadCredentials)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, unauthorized{Message: "Authentication unavailable"})
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, challenge, message string) {
	c.Header("WWW-Authenticate", challenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized{Message: message})
}
