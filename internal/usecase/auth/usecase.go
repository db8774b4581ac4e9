package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	loanDomain "credconecta-backend/internal/domain/loan"
	userDomain "credconecta-backend/internal/domain/user"
	"credconecta-backend/pkg/id"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const adminName = "Administrador"

type Usecase struct {
	users         userDomain.Repository
	adminPassword string
	secret        []byte
	ttl           time.Duration
	log           logrus.FieldLogger
	now           func() time.Time
}

func NewUsecase(users userDomain.Repository, adminPassword, jwtSecret string, ttl time.Duration, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		users:         users,
		adminPassword: adminPassword,
		secret:        []byte(jwtSecret),
		ttl:           ttl,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func samePassword(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (u *Usecase) Login(ctx context.Context, in LoginInput) (*Session, error) {
	switch in.Type {
	case TypeAdmin:
		if !samePassword(in.Password, u.adminPassword) {
			u.log.Warn("admin login rejected")
			return nil, ErrInvalidCredentials
		}
		return u.issue(Principal{Type: TypeAdmin, ID: loanDomain.AdminOwnerID, FullName: adminName})
	case TypeUser:
		usr, err := u.users.GetByCPF(ctx, in.CPF)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		if !samePassword(in.Password, usr.Password) {
			u.log.WithField("user_id", usr.ID).Warn("user login rejected")
			return nil, ErrInvalidCredentials
		}
		if usr.IsBlocked {
			return nil, ErrUserBlocked
		}
		return u.issue(Principal{Type: TypeUser, ID: usr.ID, FullName: usr.FullName})
	default:
		return nil, ErrInvalidCredentials
	}
}

func (u *Usecase) issue(p Principal) (*Session, error) {
	now := u.now()
	exp := now.Add(u.ttl)
	claims := Claims{
		Type:     p.Type,
		FullName: p.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	u.log.WithFields(logrus.Fields{"principal": p.ID, "type": p.Type}).Info("login succeeded")
	return &Session{Token: token, ExpiresAt: exp, Principal: p}, nil
}

// ParseToken validates signature and expiry and returns the caller.
func (u *Usecase) ParseToken(token string) (*Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return u.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(u.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || (claims.Type != TypeAdmin && claims.Type != TypeUser) {
		return nil, ErrInvalidToken
	}
	return &Principal{Type: claims.Type, ID: claims.Subject, FullName: claims.FullName}, nil
}

// ---- user management (admin) ----

func (u *Usecase) ListUsers(ctx context.Context) ([]userDomain.User, error) {
	return u.users.List(ctx)
}

func (u *Usecase) cpfFree(ctx context.Context, cpf, selfID string) error {
	existing, err := u.users.GetByCPF(ctx, cpf)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return userDomain.ErrCPFTaken
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

func (u *Usecase) AddUser(ctx context.Context, in CreateUserInput) (*userDomain.User, error) {
	if err := u.cpfFree(ctx, in.CPF, ""); err != nil {
		return nil, err
	}
	usr := &userDomain.User{
		ID:                   id.NewID32(),
		FullName:             in.FullName,
		CPF:                  in.CPF,
		Password:             in.Password,
		MonthlyPaymentStatus: userDomain.PaymentPending,
		CreatedAt:            u.now(),
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}
	u.log.WithField("user_id", usr.ID).Info("user added")
	return usr, nil
}

func (u *Usecase) load(ctx context.Context, userID string) (*userDomain.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) UpdateUser(ctx context.Context, userID string, p userDomain.Patch) (*userDomain.User, error) {
	usr, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.CPF != nil {
		if err := u.cpfFree(ctx, *p.CPF, usr.ID); err != nil {
			return nil, err
		}
	}
	usr.Apply(p)
	if err := u.users.Save(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) ToggleBlock(ctx context.Context, userID string) (*userDomain.User, error) {
	usr, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	usr.IsBlocked = !usr.IsBlocked
	if err := u.users.Save(ctx, usr); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"user_id": usr.ID, "blocked": usr.IsBlocked}).Info("user block toggled")
	return usr, nil
}

func (u *Usecase) DeleteUser(ctx context.Context, userID string) error {
	if err := u.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userDomain.ErrNotFound
		}
		return err
	}
	return nil
}
