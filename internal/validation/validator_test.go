package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/labdeskapp/labdesk-server/internal/errors"
	"github.com/labdeskapp/labdesk-server/internal/validation"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := loginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       loginRequest
		wantField string
	}{
		{
			name:      "missing required field",
			req:       loginRequest{Email: "", Password: "password123"},
			wantField: "email",
		},
		{
			name:      "invalid email",
			req:       loginRequest{Email: "not-an-email", Password: "password123"},
			wantField: "email",
		},
		{
			name:      "password too short",
			req:       loginRequest{Email: "admin@example.com", Password: "short"},
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, domainerrors.As(err, &domainErr)) {
				assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

				details, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok) {
					assert.Contains(t, details, tt.wantField)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(loginRequest{Email: "", Password: "password123"})
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	if assert.True(t, domainerrors.As(err, &domainErr)) {
		details, ok := domainErr.Details.(map[string]string)
		if assert.True(t, ok) {
			// JSON tag name "email", not struct field name "Email"
			assert.Contains(t, details, "email")
			assert.NotContains(t, details, "Email")
		}
	}
}
