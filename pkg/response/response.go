package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/pkg/apperror"
)

const (
	MsgValidation = "Validation error encountered."
	MsgNotFound   = "Resource not found."
	MsgUnexpected = "An unexpected error occurred."
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// OK writes a success envelope.
func OK[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	resp := Success(ctx, status, data, message, meta)
	ctx.JSON(resp.Status, resp)
}

// Abort writes an error envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, err interface{}) {
	resp := Error[any](ctx, status, message, err)
	ctx.AbortWithStatusJSON(resp.Status, resp)
}

// Fail maps err onto the error envelope. 5xx errors are logged with their full
// chain; clients only see the message.
func Fail(ctx *gin.Context, logger *logrus.Logger, err error) {
	status, message, details := Describe(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"method":     ctx.Request.Method,
			"path":       ctx.FullPath(),
		}).Error("request failed")
	}
	Abort(ctx, status, message, details)
}

// Describe returns the status, message and error details the envelope carries for err.
func Describe(err error) (int, string, interface{}) {
	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, MsgValidation, ve.Errors
	}

	var de *apperror.DomainError
	if errors.As(err, &de) {
		status := de.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if status >= http.StatusInternalServerError || len(de.Context) == 0 {
			return status, de.Message, nil
		}
		return status, de.Message, de.Context
	}

	if errors.Is(err, apperror.ErrNotFound) {
		return http.StatusNotFound, MsgNotFound, nil
	}
	return http.StatusInternalServerError, MsgUnexpected, nil
}
