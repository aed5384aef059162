package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/shared/failure"
	"etm/shared/validator"
)

type registerPayload struct {
	Username string   `json:"username" validate:"required,max=50"`
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Roles    []string `json:"roles"    validate:"omitempty,dive,oneof=ADMIN USER"`
}

type tripPayload struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

type avatarPayload struct {
	ContentType string `json:"content_type" validate:"required,mimetypes=image/png image/jpeg"`
	Size        int64  `json:"size"         validate:"gt=0,maxfilesize=1"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantFields []string
	}{
		{
			name: "valid body",
			body: `{"username":"admin","email":"admin@example.com","password":"pw12345","roles":["ADMIN"]}`,
		},
		{
			name:       "invalid email and short password",
			body:       `{"username":"admin","email":"not-an-email","password":"pw"}`,
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"email", "password"},
		},
		{
			name:       "unknown role",
			body:       `{"username":"admin","email":"admin@example.com","password":"pw12345","roles":["ROOT"]}`,
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"roles[0]"},
		},
		{
			name:     "malformed json",
			body:     `{"username":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:       "empty object",
			body:       `{}`,
			wantCode:   http.StatusBadRequest,
			wantFields: []string{"username", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data registerPayload

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))

			fields := failure.GetFields(err)
			for _, field := range tt.wantFields {
				assert.Contains(t, fields, field)
			}
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	err := validator.ValidateStruct(&registerPayload{Username: "admin", Email: "admin@example.com", Password: "abc"})

	require.Error(t, err)
	assert.Equal(t, "Validation failed", err.Error())
	assert.Equal(t, "password must be at least 6 characters", failure.GetFields(err)["password"])
}

func TestValidateStruct_DateLayout(t *testing.T) {
	assert.NoError(t, validator.ValidateStruct(&tripPayload{StartDate: "2024-03-01"}))

	err := validator.ValidateStruct(&tripPayload{StartDate: "01/03/2024"})
	require.Error(t, err)
	assert.Contains(t, failure.GetFields(err), "start_date")
}

func TestValidateStruct_File(t *testing.T) {
	assert.NoError(t, validator.ValidateStruct(&avatarPayload{ContentType: "image/png", Size: 512}))
	assert.NoError(t, validator.ValidateStruct(&avatarPayload{ContentType: "image/jpeg; charset=binary", Size: 512}))
	assert.Error(t, validator.ValidateStruct(&avatarPayload{ContentType: "application/pdf", Size: 512}))
	assert.Error(t, validator.ValidateStruct(&avatarPayload{ContentType: "image/jpeg", Size: 2 * 1024 * 1024}))
	assert.Error(t, validator.ValidateStruct(&avatarPayload{ContentType: "image/jpeg"}))
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid uuid", field: "4b0c7f5e-8c52-4a9b-9d0e-6a1f2f7c9e11", tag: "uuid"},
		{name: "invalid uuid", field: "42", tag: "uuid", expectError: true},
		{name: "valid status", field: "SCHEDULED", tag: "oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"},
		{name: "invalid status", field: "DONE", tag: "oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED", expectError: true},
		{name: "empty required", field: "", tag: "required", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
