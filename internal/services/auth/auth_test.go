package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resellerhub/resellerhub/internal/lib/jwt"
	"github.com/resellerhub/resellerhub/internal/lib/password"
	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/services/auth"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// fakeUserRepo хранит пользователей в памяти, email считается
// уникальным ключом.
type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user models.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	user.CreatedAt = time.Now()
	u := user
	f.byEmail[u.Email] = &u
	f.byID[u.ID] = &u
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func newService(repo *fakeUserRepo) *auth.AuthService {
	return auth.NewAuthService(repo, jwt.NewMaker("test-secret", time.Hour))
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	user, token, err := svc.Register(context.Background(), "Budi@Example.COM", "rahasia123", "Budi", nil)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "budi@example.com", user.Email, "email normalized to lowercase")
	assert.Equal(t, models.PlanFree, user.Plan)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "rahasia123", user.PasswordHash, "plaintext never stored")
	assert.NoError(t, password.CompareHash(user.PasswordHash, "rahasia123"))

	claims, err := jwt.NewMaker("test-secret", time.Hour).ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Plan, claims.Plan)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	_, _, err := svc.Register(context.Background(), "budi@example.com", "rahasia123", "Budi", nil)
	require.NoError(t, err)

	// Повторная регистрация тем же email в другом регистре.
	_, _, err = svc.Register(context.Background(), "BUDI@example.com", "lain456", "Budi Kedua", nil)
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
	assert.Len(t, repo.byEmail, 1, "exactly one user exists")
}

func TestLogin_UniformError(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	_, _, err := svc.Register(context.Background(), "budi@example.com", "rahasia123", "Budi", nil)
	require.NoError(t, err)

	_, _, wrongPass := svc.Login(context.Background(), "budi@example.com", "salah")
	_, _, unknownEmail := svc.Login(context.Background(), "tidakada@example.com", "rahasia123")

	// Неверный пароль и неизвестный email дают одну и ту же ошибку.
	assert.ErrorIs(t, wrongPass, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, auth.ErrInvalidCredentials)
	assert.Equal(t, wrongPass, unknownEmail)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	created, _, err := svc.Register(context.Background(), "budi@example.com", "rahasia123", "Budi", nil)
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "Budi@example.com", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestEnsureOAuthUser_CreatesWithSentinel(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	user, token, err := svc.EnsureOAuthUser(context.Background(), "Siti@Gmail.com", "Siti")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "siti@gmail.com", user.Email)
	assert.Equal(t, password.OAuthSentinel, user.PasswordHash)
	assert.Equal(t, models.PlanFree, user.Plan)

	// Вход по паролю в федеративный аккаунт невозможен.
	_, _, err = svc.Login(context.Background(), "siti@gmail.com", password.OAuthSentinel)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestEnsureOAuthUser_ExistingAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	created, _, err := svc.Register(context.Background(), "budi@example.com", "rahasia123", "Budi", nil)
	require.NoError(t, err)

	user, _, err := svc.EnsureOAuthUser(context.Background(), "budi@example.com", "Budi G")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID, "existing account reused")
	assert.Len(t, repo.byEmail, 1)
}

func TestMe_NotFound(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Me(context.Background(), "missing-id")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
