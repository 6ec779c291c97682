// Package apperror defines the error taxonomy shared by repositories, services and handlers.
//
// Three tiers exist: ValidationError (client input or a precondition that fails before any
// mutation), DomainError (storage, authentication, email delivery, conflict) and anything else,
// which the HTTP boundary reports as an unexpected error with a generic message.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned by repositories when a row expected to exist does not.
var ErrNotFound = errors.New("not found")

// FieldError is a single {field, message} pair of a ValidationError.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input or a failed precondition.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation builds a ValidationError with one field error.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// Validations builds a ValidationError from several field errors.
func Validations(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

type Kind string

const (
	KindStorage        Kind = "storage"
	KindAuthentication Kind = "authentication"
	KindEmailDelivery  Kind = "email_delivery"
	KindConflict       Kind = "conflict"
)

// DomainError carries a single message, an HTTP-equivalent status and optional context.
type DomainError struct {
	Kind    Kind
	Message string
	Status  int
	Context map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// Storage wraps a query failure. err is kept for logging and errors.Is checks.
func Storage(message string, err error, ctx map[string]any) *DomainError {
	return &DomainError{Kind: KindStorage, Message: message, Status: http.StatusInternalServerError, Context: ctx, Err: err}
}

// AuthenticationMessage is the message every authentication failure carries.
const AuthenticationMessage = "Authentication error encountered."

// Authentication reports a missing, malformed, expired or wrongly-purposed credential.
func Authentication(err error) *DomainError {
	return &DomainError{Kind: KindAuthentication, Message: AuthenticationMessage, Status: http.StatusUnauthorized, Err: err}
}

// EmailDelivery reports a failed attempt to send an email.
func EmailDelivery(recipient, emailType string, err error) *DomainError {
	return &DomainError{
		Kind:    KindEmailDelivery,
		Message: "Failed to send " + emailType + " email.",
		Status:  http.StatusInternalServerError,
		Context: map[string]any{"recipient": recipient, "emailType": emailType},
		Err:     err,
	}
}

// Conflict reports a duplicate resource.
func Conflict(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message, Status: http.StatusConflict}
}

// IsKind reports whether err wraps a DomainError of kind k.
func IsKind(err error, k Kind) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == k
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
