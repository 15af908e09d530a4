// Package validation checks the shape, type, and range of incoming request
// data before it reaches any business logic. Request fields arrive as raw
// JSON so missing, wrong-typed, and out-of-range values are each reported
// per field.
package validation

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxNameLength = 100
const maxTokenLength = 100

// Error carries field-level validation messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

// RegisterRequest is the raw body of POST /users.
type RegisterRequest struct {
	ID   json.RawMessage `json:"ID"`
	NIK  json.RawMessage `json:"NIK"`
	Name json.RawMessage `json:"name"`
}

// LoginRequest is the raw body of POST /users/login.
type LoginRequest struct {
	ID  json.RawMessage `json:"ID"`
	NIK json.RawMessage `json:"NIK"`
}

// UpdateRequest is the raw body of PATCH /users/current.
type UpdateRequest struct {
	NIK  json.RawMessage `json:"NIK"`
	Name json.RawMessage `json:"name"`
}

// RegisterInput is the sanitized result of a valid RegisterRequest.
type RegisterInput struct {
	ID   int64
	NIK  int64
	Name string
}

// LoginInput is the sanitized result of a valid LoginRequest.
type LoginInput struct {
	ID  int64
	NIK int64
}

// UpdateInput is the sanitized result of a valid UpdateRequest. Nil fields
// were not supplied.
type UpdateInput struct {
	NIK  *int64
	Name *string
}

// Register validates the register schema: ID and NIK required numeric,
// name required string of at most 100 characters.
func Register(req RegisterRequest) (RegisterInput, error) {
	fields := map[string]string{}
	id := requireInt(fields, "ID", req.ID)
	nik := requireInt(fields, "NIK", req.NIK)
	name := requireString(fields, "name", req.Name, maxNameLength)
	if len(fields) > 0 {
		return RegisterInput{}, &Error{Fields: fields}
	}
	return RegisterInput{ID: id, NIK: nik, Name: name}, nil
}

// Login validates the login schema: ID and NIK required numeric.
func Login(req LoginRequest) (LoginInput, error) {
	fields := map[string]string{}
	id := requireInt(fields, "ID", req.ID)
	nik := requireInt(fields, "NIK", req.NIK)
	if len(fields) > 0 {
		return LoginInput{}, &Error{Fields: fields}
	}
	return LoginInput{ID: id, NIK: nik}, nil
}

// Update validates the update schema: NIK optional numeric, name optional
// string of at most 100 characters. At least one field must be supplied.
func Update(req UpdateRequest) (UpdateInput, error) {
	fields := map[string]string{}
	nik := optionalInt(fields, "NIK", req.NIK)
	name := optionalString(fields, "name", req.Name, maxNameLength)
	if len(fields) > 0 {
		return UpdateInput{}, &Error{Fields: fields}
	}
	if nik == nil && name == nil {
		return UpdateInput{}, &Error{Fields: map[string]string{
			"request": "at least one of NIK or name must be supplied",
		}}
	}
	return UpdateInput{NIK: nik, Name: name}, nil
}

// Identity validates the opaque identity token taken from the
// Authorization header: required string of at most 100 characters.
func Identity(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", &Error{Fields: map[string]string{"token": "token is required"}}
	}
	if utf8.RuneCountInString(token) > maxTokenLength {
		return "", &Error{Fields: map[string]string{"token": "token must be at most 100 characters"}}
	}
	return token, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func requireInt(fields map[string]string, name string, raw json.RawMessage) int64 {
	if !present(raw) {
		fields[name] = name + " is required"
		return 0
	}
	var value int64
	if err := json.Unmarshal(raw, &value); err != nil {
		fields[name] = name + " must be a number"
		return 0
	}
	return value
}

func optionalInt(fields map[string]string, name string, raw json.RawMessage) *int64 {
	if !present(raw) {
		return nil
	}
	var value int64
	if err := json.Unmarshal(raw, &value); err != nil {
		fields[name] = name + " must be a number"
		return nil
	}
	return &value
}

func requireString(fields map[string]string, name string, raw json.RawMessage, max int) string {
	if !present(raw) {
		fields[name] = name + " is required"
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		fields[name] = name + " must be a string"
		return ""
	}
	if strings.TrimSpace(value) == "" {
		fields[name] = name + " must not be empty"
		return ""
	}
	if utf8.RuneCountInString(value) > max {
		fields[name] = name + " must be at most 100 characters"
		return ""
	}
	return value
}

func optionalString(fields map[string]string, name string, raw json.RawMessage, max int) *string {
	if !present(raw) {
		return nil
	}
	value := requireString(fields, name, raw, max)
	if _, failed := fields[name]; failed {
		return nil
	}
	return &value
}
