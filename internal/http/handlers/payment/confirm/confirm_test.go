package confirm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/resellerhub/resellerhub/internal/http/middlewarectx"
	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/services/payment"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// MockService реализует интерфейс confirm.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) AttachProof(ctx context.Context, paymentID, proofURL, requesterID string) (*models.Payment, error) {
	args := m.Called(ctx, paymentID, proofURL, requesterID)
	if res := args.Get(0); res != nil {
		return res.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Confirm(ctx context.Context, paymentID string, confirmer *models.User) (*models.Payment, error) {
	args := m.Called(ctx, paymentID, confirmer)
	if res := args.Get(0); res != nil {
		return res.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Reject(ctx context.Context, paymentID string, confirmer *models.User) (*models.Payment, error) {
	args := m.Called(ctx, paymentID, confirmer)
	if res := args.Get(0); res != nil {
		return res.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(body, userID, role string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/confirm", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middlewarectx.UserID, userID)
	ctx = context.WithValue(ctx, middlewarectx.Role, role)
	return req.WithContext(ctx)
}

func TestConfirmHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		userID         string
		role           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "владелец прикрепляет бумагу об оплате",
			body:   `{"payment_id":"p-1","action":"upload_proof","proof_url":"https://cdn.example.com/proof.jpg"}`,
			userID: "u-1",
			role:   models.RoleUser,
			setupMock: func(m *MockService) {
				updated := &models.Payment{ID: "p-1", Status: models.PaymentStatusWaitingConfirmation}
				m.On("AttachProof", mock.Anything, "p-1", "https://cdn.example.com/proof.jpg", "u-1").
					Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   models.PaymentStatusWaitingConfirmation,
		},
		{
			name:           "upload_proof без proof_url",
			body:           `{"payment_id":"p-1","action":"upload_proof"}`,
			userID:         "u-1",
			role:           models.RoleUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `proof_url`,
		},
		{
			name:   "подтверждение не администратором",
			body:   `{"payment_id":"p-1","action":"confirm"}`,
			userID: "u-1",
			role:   models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "p-1", &models.User{ID: "u-1", Role: models.RoleUser}).
					Return(nil, payment.ErrNotAdmin)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `forbidden`,
		},
		{
			name:   "подтверждение администратором",
			body:   `{"payment_id":"p-1","action":"confirm"}`,
			userID: "admin-1",
			role:   models.RoleAdmin,
			setupMock: func(m *MockService) {
				updated := &models.Payment{ID: "p-1", Status: models.PaymentStatusConfirmed}
				m.On("Confirm", mock.Anything, "p-1", &models.User{ID: "admin-1", Role: models.RoleAdmin}).
					Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   models.PaymentStatusConfirmed,
		},
		{
			name:   "повторное подтверждение",
			body:   `{"payment_id":"p-1","action":"confirm"}`,
			userID: "admin-1",
			role:   models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, "p-1", &models.User{ID: "admin-1", Role: models.RoleAdmin}).
					Return(nil, payment.ErrAlreadyProcessed)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `payment already processed`,
		},
		{
			name:   "платеж не найден",
			body:   `{"payment_id":"ghost","action":"reject"}`,
			userID: "admin-1",
			role:   models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Reject", mock.Anything, "ghost", &models.User{ID: "admin-1", Role: models.RoleAdmin}).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `payment not found`,
		},
		{
			name:           "неизвестное действие",
			body:           `{"payment_id":"p-1","action":"cancel"}`,
			userID:         "u-1",
			role:           models.RoleUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `Action`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(tt.body, tt.userID, tt.role))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestConfirmHandler_NoAuthContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := New(logger, new(MockService))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/confirm",
		strings.NewReader(`{"payment_id":"p-1","action":"confirm"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
