package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     sample
		fields map[string]string
	}{
		{name: "valid", in: sample{Email: "a@x.com", Code: "123456"}},
		{
			name: "bad email and short code",
			in:   sample{Email: "nope", Code: "123"},
			fields: map[string]string{
				"Email": "Invalid email format",
				"Code":  "Must be exactly 6 characters",
			},
		},
		{
			name:   "letters in code",
			in:     sample{Email: "a@x.com", Code: "12a456"},
			fields: map[string]string{"Code": "Must contain digits only"},
		},
		{
			name: "missing",
			in:   sample{},
			fields: map[string]string{
				"Email": "This field is required",
				"Code":  "This field is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateStruct(tt.in)
			if tt.fields == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{"b": "two", "a": "one"})
	assert.Equal(t, "a: one; b: two", got)
}
