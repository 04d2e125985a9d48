package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/resellerhub/resellerhub/internal/http/middlewarectx"
	"github.com/resellerhub/resellerhub/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/list", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.UserID, userID)
	return req.WithContext(ctx)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("платежи пользователя", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("ListByUser", mock.Anything, "u-1").Return([]*models.Payment{
			{ID: "p-1", UserID: "u-1", PlanID: "pro", Amount: 149123, Status: models.PaymentStatusPending, CreatedAt: time.Now()},
		}, nil)

		rec := httptest.NewRecorder()
		New(logger, mockService).ServeHTTP(rec, newRequest("u-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"p-1"`)
		mockService.AssertExpectations(t)
	})

	t.Run("пустая история отдается как пустой массив", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("ListByUser", mock.Anything, "u-2").Return(nil, nil)

		rec := httptest.NewRecorder()
		New(logger, mockService).ServeHTTP(rec, newRequest("u-2"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"payments":[]`)
		assert.NotContains(t, rec.Body.String(), `null`)
	})

	t.Run("ошибка сервиса", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("ListByUser", mock.Anything, "u-3").Return(nil, errors.New("db error"))

		rec := httptest.NewRecorder()
		New(logger, mockService).ServeHTTP(rec, newRequest("u-3"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "failed to list payments")
	})

	t.Run("нет контекста авторизации", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/list", nil)
		New(logger, new(MockService)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
