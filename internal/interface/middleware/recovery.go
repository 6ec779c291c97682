package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/pkg/response"
)

// Recovery turns a panic into the standard error envelope with a generic
// message. The recovered value is only logged.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"panic":      recovered,
				"method":     c.Request.Method,
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
			}).Error("handler panicked")
		}
		response.Abort(c, http.StatusInternalServerError, response.MsgUnexpected, nil)
	})
}
