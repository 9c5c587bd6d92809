package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/pkg/common"
)

type fakeUserStore struct {
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*domain.User{}}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) UpdateFields(_ context.Context, _ int64, _ map[string]interface{}) error {
	return nil
}

func TestResolveCapability(t *testing.T) {
	assert.Equal(t, CapStaff, ResolveCapability(domain.RoleStaff))
	assert.Equal(t, CapCustomer, ResolveCapability(domain.RoleCustomer))
	assert.Equal(t, CapCustomer, ResolveCapability(""))
	assert.Equal(t, CapCustomer, ResolveCapability("manager"))
}

func TestSignUpCreatesCustomerWithEmptyLedgers(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, "secret", time.Hour)

	user, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Ada",
		Email:    "  Ada@Example.Com ",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotNil(t, user.CartItems)
	assert.Empty(t, user.CartItems)
	assert.NotNil(t, user.FavoriteItems)
	assert.NotEqual(t, "hunter22", user.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")))
}

func TestSignUpRejectsBadInput(t *testing.T) {
	svc := NewService(newFakeUserStore(), "secret", time.Hour)

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "not-an-email", Password: "hunter22"})
	require.Error(t, err)

	_, err = svc.SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "short"})
	require.Error(t, err)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, "secret", time.Hour)

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), SignUpInput{Email: "A@B.C", Password: "hunter22"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInRoundtrip(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, "secret", time.Hour)

	created, err := svc.SignUp(context.Background(), SignUpInput{
		Name: "Ada", Email: "a@b.c", Password: "hunter22",
	})
	require.NoError(t, err)

	token, user, err := svc.SignIn(context.Background(), "a@b.c", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, CapCustomer, claims.Capability)
}

func TestSignInWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewService(store, "secret", time.Hour)

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = svc.SignIn(context.Background(), "a@b.c", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInDisabledAccount(t *testing.T) {
	store := newFakeUserStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	store.byEmail["a@b.c"] = &domain.User{
		ID: 1, Email: "a@b.c", Password: string(hash), Status: common.DISABLED,
	}
	svc := NewService(store, "secret", time.Hour)

	_, _, err := svc.SignIn(context.Background(), "a@b.c", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStaffTokenCarriesCapability(t *testing.T) {
	svc := NewService(newFakeUserStore(), "secret", time.Hour)

	token, err := svc.IssueToken(&domain.User{ID: 9, Name: "Ops", Role: domain.RoleStaff})
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, CapStaff, claims.Capability)
	assert.Equal(t, int64(9), claims.UserID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(newFakeUserStore(), "secret-a", time.Hour)
	verifier := NewService(newFakeUserStore(), "secret-b", time.Hour)

	token, err := issuer.IssueToken(&domain.User{ID: 1, Name: "Ada"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := NewService(newFakeUserStore(), "secret", -time.Hour)

	// the constructor repairs a non-positive TTL; force it after build
	svc.tokenTTL = -time.Hour
	token, err := svc.IssueToken(&domain.User{ID: 1, Name: "Ada"})
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	require.Error(t, err)
}
