package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskward-dev/taskward/internal/domain"
	internal_errors "github.com/taskward-dev/taskward/internal/errors"
	"github.com/taskward-dev/taskward/internal/logger"
)

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

// NewToken issues a session credential scoped to the account's identity and
// role. It carries nothing about pending tickets and is never persisted on
// the account record.
func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = user.Id
	claims["email"] = user.Email
	claims["role"] = string(user.Role)
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", fmt.Errorf("can't create token: %w", err)
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal_errors.Unauthorized(fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]))
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, internal_errors.Unauthorized("Invalid token signature")
	}

	if !token.Valid {
		return nil, internal_errors.Unauthorized("Invalid access token")
	}

	return token, nil
}
