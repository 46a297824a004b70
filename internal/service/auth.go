package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskward-dev/taskward/internal/domain"
	"github.com/taskward-dev/taskward/internal/errors"
	"github.com/taskward-dev/taskward/internal/logger"
)

// AuthService is the authentication gate: it verifies credentials against
// the account store and mints session tokens for accounts the lifecycle
// allows to authenticate. It owns no account state of its own.
type AuthService interface {
	Login(creds domain.Credentials) (string, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage  AccountStorage
	accounts AccountService
	jwt      Jwt
}

func NewAuth(storage AccountStorage, accounts AccountService, jwt Jwt) *Auth {
	return &Auth{
		storage:  storage,
		accounts: accounts,
		jwt:      jwt,
	}
}

// Login returns a session token for valid credentials on an enabled account.
// A missing account, a wrong password and a disabled account all come back
// as the same Unauthorized to not leak which accounts exist.
func (a *Auth) Login(creds domain.Credentials) (string, error) {
	email := strings.ToLower(creds.Email)

	user, err := a.storage.User(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.Unauthorized("Invalid credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", errors.Unauthorized("Invalid credentials")
	}

	if !a.accounts.IsAuthenticatable(&user) {
		return "", errors.Unauthorized("Invalid credentials")
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", err
	}

	return token, nil
}
