package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrInvalidToken       = errors.New("invalid token")
)

type PrincipalType string

const (
	TypeAdmin PrincipalType = "admin"
	TypeUser  PrincipalType = "user"
)

// Principal is the authenticated caller. ID doubles as the loan owner id.
type Principal struct {
	Type     PrincipalType `json:"type"`
	ID       string        `json:"id"`
	FullName string        `json:"full_name"`
}

func (p Principal) IsAdmin() bool { return p.Type == TypeAdmin }

type Claims struct {
	Type     PrincipalType `json:"type"`
	FullName string        `json:"full_name"`
	jwt.RegisteredClaims
}

type LoginInput struct {
	Type     PrincipalType
	CPF      string
	Password string
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Principal Principal `json:"principal"`
}

type CreateUserInput struct {
	FullName string
	CPF      string
	Password string
}
