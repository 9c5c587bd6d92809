// Package auth issues and validates session tokens. The stored role string
// is examined exactly once, at token issue time, where it is resolved into an
// enumerated capability; handlers gate on the capability claim and never
// compare role literals.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/pkg/common"
)

// Capability is the session-level permission set.
type Capability string

const (
	CapCustomer Capability = "customer"
	CapStaff    Capability = "staff"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// ResolveCapability maps the stored role tag to a capability. Unknown tags
// degrade to customer.
func ResolveCapability(role string) Capability {
	if role == domain.RoleStaff {
		return CapStaff
	}
	return CapCustomer
}

// Claims is the JWT payload of a session.
type Claims struct {
	UserID     int64      `json:"uid,string"`
	Name       string     `json:"name"`
	Capability Capability `json:"cap"`
	jwt.RegisteredClaims
}

// UserStore is the slice of the user repository auth needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

// SignUpInput carries a registration request.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Service handles registration and session issue.
type Service struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewService(users UserStore, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{users: users, secret: []byte(secret), tokenTTL: tokenTTL}
}

// SignUp registers a new customer account. The cart ledger is created empty
// with the account.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(in.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &domain.User{
		ID:            common.UUIDint64(),
		Name:          strings.TrimSpace(in.Name),
		Email:         in.Email,
		Password:      string(hash),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		Role:          domain.RoleCustomer,
		CartItems:     domain.QuantityMap{},
		FavoriteItems: domain.FlagMap{},
		Status:        common.ENABLED,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	zap.L().Info("account created", zap.Int64("user_id", user.ID))
	return user, nil
}

// SignIn verifies credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.Status != common.ENABLED {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"last_login": time.Now()}); err != nil {
		zap.L().Warn("last login update failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return token, user, nil
}

// IssueToken builds a signed session token with the capability resolved from
// the stored role.
func (s *Service) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     user.ID,
		Name:       user.Name,
		Capability: ResolveCapability(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   domain.UserKey(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}
	return signed, nil
}

// ParseToken validates a session token and returns its claims.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse session token")
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
