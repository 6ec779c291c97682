package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/internal/domain/repository"
	"github.com/oksasatya/classical-review/pkg/apperror"
	"github.com/oksasatya/classical-review/pkg/helpers"
	"github.com/oksasatya/classical-review/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
)

// Auth validates the access token and, when sessions is non-nil, requires
// the token's session to be the user's live session. It sets userID and
// sessionID in the Gin context on success.
func Auth(jwt *helpers.JWTManager, sessions repository.SessionRepository, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwt.Authenticate(AccessToken(c))
		if err != nil {
			response.Fail(c, logger, err)
			return
		}

		if sessions != nil {
			sess, err := sessions.Get(c.Request.Context(), claims.UserID)
			if errors.Is(err, apperror.ErrNotFound) {
				response.Fail(c, logger, apperror.Authentication(errors.New("session not found")))
				return
			}
			if err != nil {
				response.Fail(c, logger, err)
				return
			}
			if sess.SessionID != claims.SessionID {
				response.Fail(c, logger, apperror.Authentication(errors.New("session superseded")))
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

// AccessToken reads "Authorization: Bearer <token>" and falls back to the
// access_token cookie.
func AccessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, err := c.Cookie(helpers.AccessCookie)
	if err != nil {
		return ""
	}
	return token
}
