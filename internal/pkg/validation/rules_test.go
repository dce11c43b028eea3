package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Password string  `json:"password" validate:"strongpassword"`
	Title    *string `json:"title" validate:"omitempty,notblank"`
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	blank := "  "
	ok := "Review"

	tests := []struct {
		name  string
		in    signup
		field string
	}{
		{"valid", signup{Password: "secret123", Title: &ok}, ""},
		{"weak password", signup{Password: "password"}, "password"},
		{"blank title", signup{Password: "secret123", Title: &blank}, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}
