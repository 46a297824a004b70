package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward-dev/taskward/internal/domain"
	internal_errors "github.com/taskward-dev/taskward/internal/errors"
)

func TestRegisterHandler(t *testing.T) {
	t.Run("Successful registration", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.accounts.RegisterFunc = func(creds domain.Credentials, name, surname string) (domain.User, error) {
			assert.Equal(t, "test@example.com", creds.Email)
			assert.Equal(t, "John", name)
			return domain.User{Id: 1, Email: creds.Email, Name: name, Role: domain.RoleUser}, nil
		}

		req := httptest.NewRequest("POST", "/v1/auth/register",
			strings.NewReader(`{"email":"test@example.com","password":"password","name":"John","surname":"Doe"}`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp userResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(1), resp.Id)
		assert.Equal(t, "test@example.com", resp.Email)
	})

	t.Run("Missing required fields", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(`{"email":"test@example.com"}`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid json", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(`not json`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Duplicate email maps to 409", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.accounts.RegisterFunc = func(creds domain.Credentials, name, surname string) (domain.User, error) {
			return domain.User{}, internal_errors.Conflict("The user is registered with this email")
		}

		req := httptest.NewRequest("POST", "/v1/auth/register",
			strings.NewReader(`{"email":"test@example.com","password":"password"}`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "The user is registered with this email")
	})

	t.Run("Unknown error maps to 500 without leaking details", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.accounts.RegisterFunc = func(creds domain.Credentials, name, surname string) (domain.User, error) {
			return domain.User{}, errors.New("pq: connection refused")
		}

		req := httptest.NewRequest("POST", "/v1/auth/register",
			strings.NewReader(`{"email":"test@example.com","password":"password"}`))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "pq:")
	})
}

func TestVerifyEmailHandler(t *testing.T) {
	t.Run("Successful verification", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.accounts.VerifyEmailFunc = func(email domain.Email, ticket domain.Ticket) (domain.User, error) {
			assert.Equal(t, "test@example.com", email)
			assert.Equal(t, "ticket-1", ticket)
			return domain.User{Id: 1, Email: email, Enabled: true}, nil
		}

		req := httptest.NewRequest("GET", "/v1/auth/verify?email=test@example.com&ticket=ticket-1", nil)
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing query params", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest("GET", "/v1/auth/verify?email=test@example.com", nil)
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Ticket mismatch maps to 409", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.accounts.VerifyEmailFunc = func(email domain.Email, ticket domain.Ticket) (domain.User, error) {
			return domain.User{}, internal_errors.Conflict("Ticket mismatch or no pending verification")
		}

		req := httptest.NewRequest("GET", "/v1/auth/verify?email=test@example.com&ticket=wrong", nil)
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("Successful login sets cookie", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.auth.LoginFunc = func(creds domain.Credentials) (string, error) {
			return "session_token", nil
		}

		req := httptest.NewRequest("POST", "/v1/auth/login",
			strings.NewReader(`{"email":"test@example.com","password":"password"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "accessToken", cookies[0].Name)
		assert.Equal(t, "session_token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "session_token", resp["token"])
	})

	t.Run("Invalid credentials map to 401", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.auth.LoginFunc = func(creds domain.Credentials) (string, error) {
			return "", internal_errors.Unauthorized("Invalid credentials")
		}

		req := httptest.NewRequest("POST", "/v1/auth/login",
			strings.NewReader(`{"email":"test@example.com","password":"wrong"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestLogoutHandler(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest("POST", "/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "accessToken", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestPasswordResetHandlers(t *testing.T) {
	t.Run("ForgotPassword", func(t *testing.T) {
		h, mocks := newTestHandler()
		called := false
		mocks.accounts.RequestPasswordResetFunc = func(email domain.Email) error {
			called = true
			assert.Equal(t, "test@example.com", email)
			return nil
		}

		req := httptest.NewRequest("POST", "/v1/auth/password/forgot",
			strings.NewReader(`{"email":"test@example.com"}`))
		rec := httptest.NewRecorder()
		h.ForgotPassword(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("ConfirmResetTicket", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.accounts.ConfirmResetTicketFunc = func(email domain.Email, ticket domain.Ticket) error {
			assert.Equal(t, "ticket-1", ticket)
			return nil
		}

		req := httptest.NewRequest("GET", "/v1/auth/password/confirm?email=test@example.com&ticket=ticket-1", nil)
		rec := httptest.NewRecorder()
		h.ConfirmResetTicket(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ResetPassword mismatch maps to 409", func(t *testing.T) {
		h, mocks := newTestHandler()
		mocks.accounts.CompletePasswordResetFunc = func(email domain.Email, password, passwordRepeat string) error {
			return internal_errors.Conflict("Passwords do not match")
		}

		req := httptest.NewRequest("POST", "/v1/auth/password/reset",
			strings.NewReader(`{"email":"test@example.com","password":"a","password_repeat":"b"}`))
		rec := httptest.NewRecorder()
		h.ResetPassword(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("ResetPassword success", func(t *testing.T) {
		h, _ := newTestHandler()

		req := httptest.NewRequest("POST", "/v1/auth/password/reset",
			strings.NewReader(`{"email":"test@example.com","password":"newpw","password_repeat":"newpw"}`))
		rec := httptest.NewRecorder()
		h.ResetPassword(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
