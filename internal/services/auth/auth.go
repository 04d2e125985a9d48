// Package auth содержит бизнес-логику регистрации, входа и федеративного
// входа через Google.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/resellerhub/resellerhub/internal/lib/jwt"
	"github.com/resellerhub/resellerhub/internal/lib/password"
	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// Ошибки уровня сервиса. Login намеренно не различает неизвестный email
// и неверный пароль, чтобы не давать перечислять аккаунты.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя.
	CreateUser(ctx context.Context, user models.User) error

	// GetUserByEmail возвращает пользователя по нормализованному email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и выпуск JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// NormalizeEmail приводит email к нижнему регистру без крайних пробелов.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает нового пользователя с хэшированием пароля, базовым
// тарифом и ролью "user", затем выпускает токен сессии.
//
// Уникальность email проверяется до вставки; окно гонки между проверкой
// и вставкой закрывает уникальный индекс, нарушение которого приводит
// к той же ошибке ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, name string, phone *string) (*models.User, string, error) {
	email = NormalizeEmail(email)

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Phone:        phone,
		Plan:         models.PlanFree,
		Role:         models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	created, err := s.users.GetUser(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return s.withToken(created)
}

// Login проверяет пароль пользователя и выпускает JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	return s.withToken(user)
}

// Me возвращает актуальную запись пользователя по ID из токена.
// Тариф мог измениться после выпуска токена, поэтому читаем базу.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

// EnsureOAuthUser возвращает аккаунт с подтверждённым внешним email,
// создавая его при первом федеративном входе. Вместо хеша пароля
// сохраняется сентинел, который не проходит проверку пароля никогда,
// поэтому войти в такой аккаунт по паролю нельзя.
func (s *AuthService) EnsureOAuthUser(ctx context.Context, email, name string) (*models.User, string, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return s.withToken(user)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	newUser := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: password.OAuthSentinel,
		Name:         name,
		Plan:         models.PlanFree,
		Role:         models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, newUser); err != nil {
		return nil, "", err
	}

	created, err := s.users.GetUser(ctx, newUser.ID)
	if err != nil {
		return nil, "", err
	}
	return s.withToken(created)
}

func (s *AuthService) withToken(user *models.User) (*models.User, string, error) {
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Plan, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
