package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskward-dev/taskward/internal/domain"
	internal_errors "github.com/taskward-dev/taskward/internal/errors"
)

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "test_token", nil
}

func TestLogin(t *testing.T) {
	creds := domain.Credentials{Email: "test@example.com", Password: "password"}
	passHashBytes, _ := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)

	enabledUser := domain.User{
		Id:       1,
		Email:    creds.Email,
		PassHash: string(passHashBytes),
		Enabled:  true,
		Role:     domain.RoleUser,
	}

	setup := func() (*Auth, *MockAccountStorage, *MockJwt) {
		storage := NewMockAccountStorage()
		jwt := &MockJwt{}
		accounts, _, _ := newAccountService()
		service := NewAuth(storage, accounts, jwt)
		return service, storage, jwt
	}

	t.Run("Successful login", func(t *testing.T) {
		service, storage, jwt := setup()
		storage.UserFunc = func(email domain.Email) (domain.User, error) {
			assert.Equal(t, creds.Email, email)
			return enabledUser, nil
		}
		jwt.NewTokenFunc = func(user domain.User) (string, error) {
			assert.Equal(t, enabledUser.Id, user.Id)
			return "success_token", nil
		}

		token, err := service.Login(creds)

		require.NoError(t, err)
		assert.Equal(t, "success_token", token)
	})

	t.Run("Email is lowercased before lookup", func(t *testing.T) {
		service, storage, _ := setup()
		storage.UserFunc = func(email domain.Email) (domain.User, error) {
			assert.Equal(t, "test@example.com", email)
			return enabledUser, nil
		}

		_, err := service.Login(domain.Credentials{Email: "TEST@Example.COM", Password: creds.Password})

		require.NoError(t, err)
	})

	t.Run("Unknown account", func(t *testing.T) {
		service, _, _ := setup()

		token, err := service.Login(creds)

		require.Error(t, err)
		assert.True(t, internal_errors.IsUnauthorized(err))
		assert.Equal(t, "Invalid credentials", err.Error())
		assert.Empty(t, token)
	})

	t.Run("Wrong password", func(t *testing.T) {
		service, storage, _ := setup()
		storage.UserFunc = func(email domain.Email) (domain.User, error) {
			return enabledUser, nil
		}

		token, err := service.Login(domain.Credentials{Email: creds.Email, Password: "wrong_password"})

		require.Error(t, err)
		assert.True(t, internal_errors.IsUnauthorized(err))
		assert.Equal(t, "Invalid credentials", err.Error(), "wrong password and missing account must be indistinguishable")
		assert.Empty(t, token)
	})

	t.Run("Disabled account", func(t *testing.T) {
		service, storage, _ := setup()
		disabled := enabledUser
		disabled.Enabled = false
		storage.UserFunc = func(email domain.Email) (domain.User, error) {
			return disabled, nil
		}

		token, err := service.Login(creds)

		require.Error(t, err)
		assert.True(t, internal_errors.IsUnauthorized(err))
		assert.Equal(t, "Invalid credentials", err.Error(), "disabled account must be indistinguishable from bad credentials")
		assert.Empty(t, token)
	})

	t.Run("Pending reset ticket does not block login", func(t *testing.T) {
		service, storage, _ := setup()
		pending := enabledUser
		pending.Pending = domain.PendingAction{Kind: domain.ActionResetPassword, Ticket: "ticket-1"}
		storage.UserFunc = func(email domain.Email) (domain.User, error) {
			return pending, nil
		}

		token, err := service.Login(creds)

		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("storage.User general error", func(t *testing.T) {
		service, storage, _ := setup()
		mockError := errors.New("mock UserFunc general error")
		storage.UserFunc = func(email domain.Email) (domain.User, error) {
			return domain.User{}, mockError
		}

		token, err := service.Login(creds)

		require.Error(t, err)
		assert.True(t, errors.Is(err, mockError))
		assert.Empty(t, token)
	})

	t.Run("jwt.NewToken error", func(t *testing.T) {
		service, storage, jwt := setup()
		mockError := errors.New("mock NewTokenFunc error")
		storage.UserFunc = func(email domain.Email) (domain.User, error) {
			return enabledUser, nil
		}
		jwt.NewTokenFunc = func(user domain.User) (string, error) {
			return "", mockError
		}

		token, err := service.Login(creds)

		require.Error(t, err)
		assert.True(t, errors.Is(err, mockError))
		assert.Empty(t, token)
	})
}
