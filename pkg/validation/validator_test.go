package validation

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/classical-review/pkg/apperror"
)

type registerPayload struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

type reviewPayload struct {
	Rating int `json:"rating" validate:"rating"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestToFieldErrors_UsesJSONNamesAndAliases(t *testing.T) {
	err := newValidator().Struct(registerPayload{Username: "a!", Email: "nope", Password: "short"})
	require.Error(t, err)

	got := ToFieldErrors(err)
	assert.ElementsMatch(t, []apperror.FieldError{
		{Field: "username", Message: "must be 3 to 32 alphanumeric characters"},
		{Field: "email", Message: "must be a valid email"},
		{Field: "password", Message: "must be between 8 and 72 characters long"},
	}, got)
}

func TestToFieldErrors_Rating(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(reviewPayload{Rating: 5}))

	err := v.Struct(reviewPayload{Rating: 6})
	require.Error(t, err)
	assert.Equal(t, []apperror.FieldError{{Field: "rating", Message: "must be between 1 and 5"}}, ToFieldErrors(err))
}

func TestToFieldErrors_Payload(t *testing.T) {
	assert.Nil(t, ToFieldErrors(nil))
	assert.Equal(t, "request body is empty", ToFieldErrors(io.EOF)[0].Message)

	var out registerPayload
	err := json.Unmarshal([]byte(`{"username":`), &out)
	require.Error(t, err)
	assert.Equal(t, "payload", ToFieldErrors(err)[0].Field)

	assert.Equal(t, "invalid payload", ToFieldErrors(errors.New("boom"))[0].Message)
}

func TestFromBinding(t *testing.T) {
	assert.NoError(t, FromBinding(nil))

	err := FromBinding(io.EOF)
	assert.True(t, apperror.IsValidation(err))
}
