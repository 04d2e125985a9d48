package register

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/services/auth"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, rawPassword, name string, phone *string) (*models.User, string, error) {
	args := m.Called(ctx, email, rawPassword, name, phone)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"email":"budi@example.com","password":"secret1","name":"Budi"}`,
			setupMock: func(m *MockService) {
				user := &models.User{ID: "u-1", Email: "budi@example.com", Name: "Budi", Plan: models.PlanFree}
				m.On("Register", mock.Anything, "budi@example.com", "secret1", "Budi", (*string)(nil)).
					Return(user, "token-123", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"token":"token-123"`,
		},
		{
			name:           "битый JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "нет email",
			body:           `{"password":"secret1","name":"Budi"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `Email`,
		},
		{
			name:           "короткий пароль",
			body:           `{"email":"budi@example.com","password":"123","name":"Budi"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `Password`,
		},
		{
			name: "email уже занят",
			body: `{"email":"budi@example.com","password":"secret1","name":"Budi"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "budi@example.com", "secret1", "Budi", (*string)(nil)).
					Return(nil, "", auth.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `email already registered`,
		},
		{
			name: "ошибка сервиса",
			body: `{"email":"budi@example.com","password":"secret1","name":"Budi"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "budi@example.com", "secret1", "Budi", (*string)(nil)).
					Return(nil, "", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to register user`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
