package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		req        RegisterRequest
		want       RegisterInput
		wantFields []string
	}{
		{
			name: "valid",
			req:  RegisterRequest{ID: raw("9699"), NIK: raw("21221"), Name: raw(`"Izanami"`)},
			want: RegisterInput{ID: 9699, NIK: 21221, Name: "Izanami"},
		},
		{
			name:       "all missing",
			req:        RegisterRequest{},
			wantFields: []string{"ID", "NIK", "name"},
		},
		{
			name:       "empty strings",
			req:        RegisterRequest{ID: raw(`""`), NIK: raw(`""`), Name: raw(`""`)},
			wantFields: []string{"ID", "NIK", "name"},
		},
		{
			name:       "non-numeric ID",
			req:        RegisterRequest{ID: raw(`"salah"`), NIK: raw("21221"), Name: raw(`"Izanami"`)},
			wantFields: []string{"ID"},
		},
		{
			name:       "name not a string",
			req:        RegisterRequest{ID: raw("9699"), NIK: raw("21221"), Name: raw("42")},
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			req:        RegisterRequest{ID: raw("9699"), NIK: raw("21221"), Name: raw(`"` + strings.Repeat("a", 101) + `"`)},
			wantFields: []string{"name"},
		},
		{
			name:       "null counts as missing",
			req:        RegisterRequest{ID: raw("null"), NIK: raw("21221"), Name: raw(`"Izanami"`)},
			wantFields: []string{"ID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Register(tt.req)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			var validationErr *Error
			require.ErrorAs(t, err, &validationErr)
			for _, field := range tt.wantFields {
				assert.Contains(t, validationErr.Fields, field)
			}
			assert.Len(t, validationErr.Fields, len(tt.wantFields))
		})
	}
}

func TestLogin(t *testing.T) {
	got, err := Login(LoginRequest{ID: raw("9699"), NIK: raw("21221")})
	require.NoError(t, err)
	assert.Equal(t, LoginInput{ID: 9699, NIK: 21221}, got)

	_, err = Login(LoginRequest{ID: raw(`""`), NIK: raw(`""`)})
	var validationErr *Error
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "ID")
	assert.Contains(t, validationErr.Fields, "NIK")
}

func TestUpdate(t *testing.T) {
	t.Run("name only", func(t *testing.T) {
		got, err := Update(UpdateRequest{Name: raw(`"Izanami"`)})
		require.NoError(t, err)
		require.NotNil(t, got.Name)
		assert.Equal(t, "Izanami", *got.Name)
		assert.Nil(t, got.NIK)
	})

	t.Run("nik only", func(t *testing.T) {
		got, err := Update(UpdateRequest{NIK: raw("321321")})
		require.NoError(t, err)
		require.NotNil(t, got.NIK)
		assert.Equal(t, int64(321321), *got.NIK)
		assert.Nil(t, got.Name)
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := Update(UpdateRequest{})
		var validationErr *Error
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("wrong types rejected", func(t *testing.T) {
		_, err := Update(UpdateRequest{NIK: raw(`"salah"`), Name: raw("42")})
		var validationErr *Error
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "NIK")
		assert.Contains(t, validationErr.Fields, "name")
	})
}

func TestIdentity(t *testing.T) {
	token, err := Identity("  abc  ")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = Identity("")
	var validationErr *Error
	require.ErrorAs(t, err, &validationErr)

	_, err = Identity(strings.Repeat("x", 101))
	require.ErrorAs(t, err, &validationErr)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Fields: map[string]string{
		"NIK": "NIK is required",
		"ID":  "ID is required",
	}}
	assert.Equal(t, "ID is required; NIK is required", err.Error())
}
