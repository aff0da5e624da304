package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("creates user and returns token", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		code, body := s.do(t, http.MethodPost, "/api/auth/register", "",
			`{"name":"John","email":"John@Example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "User registered successfully", body["message"])
		assert.NotEmpty(t, body["token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "john@example.com", user["email"])
		assert.Equal(t, "user", user["role"])
		assert.NotContains(t, user, "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.registerUser(t, "John", "john@example.com", "secret123")

		code, body := s.do(t, http.MethodPost, "/api/auth/register", "",
			`{"name":"Johnny","email":"JOHN@example.com","password":"other"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t,
			"A user with this email already exists. Please use a different email or try logging in.",
			body["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		code, body := s.do(t, http.MethodPost, "/api/auth/register", "",
			`{"email":"john@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Please provide name, email, and password. All fields are required.", body["message"])
	})

	t.Run("non-string fields", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		code, body := s.do(t, http.MethodPost, "/api/auth/register", "",
			`{"name":123,"email":"john@example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid data types. All fields must be strings.", body["message"])
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.registerUser(t, "John", "john@example.com", "secret123")

		code, body := s.do(t, http.MethodPost, "/api/auth/login", "",
			`{"email":"John@Example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Login successful", body["message"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.registerUser(t, "John", "john@example.com", "secret123")

		code, body := s.do(t, http.MethodPost, "/api/auth/login", "",
			`{"email":"john@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		code, body := s.do(t, http.MethodPost, "/api/auth/login", "",
			`{"email":"nobody@example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		code, body := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"john@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Please provide email and password", body["message"])
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("returns the authenticated user", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		token := s.registerUser(t, "John", "john@example.com", "secret123")

		code, body := s.do(t, http.MethodGet, "/api/auth/me", token, "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["success"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "john@example.com", user["email"])
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		code, body := s.do(t, http.MethodGet, "/api/auth/me", "", "")

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "authentication required", body["message"])
	})
}
