package create

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
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userID, planID string) (*models.Payment, *models.Plan, error) {
	args := m.Called(ctx, userID, planID)
	var p *models.Payment
	var pl *models.Plan
	if res := args.Get(0); res != nil {
		p = res.(*models.Payment)
	}
	if res := args.Get(1); res != nil {
		pl = res.(*models.Plan)
	}
	return p, pl, args.Error(2)
}

func (m *MockService) Bank() models.BankInfo {
	args := m.Called()
	return args.Get(0).(models.BankInfo)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bank := models.BankInfo{Bank: "BCA", Number: "1234567890", Name: "ResellerHub"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное выставление счета",
			body: `{"plan_id":"starter"}`,
			setupMock: func(m *MockService) {
				p := &models.Payment{ID: "p-1", UserID: "u-1", PlanID: "starter", Amount: 49123, Status: models.PaymentStatusPending}
				pl := &models.Plan{ID: "starter", Name: "Starter", Price: 49000}
				m.On("Create", mock.Anything, "u-1", "starter").Return(p, pl, nil)
				m.On("Bank").Return(bank)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"unique_code":123`,
		},
		{
			name: "неизвестный тариф",
			body: `{"plan_id":"platinum"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "u-1", "platinum").
					Return(nil, nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `plan not found`,
		},
		{
			name:           "запрос без plan_id",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `PlanID`,
		},
		{
			name:           "битый JSON",
			body:           `{"plan_id"`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/create", strings.NewReader(tt.body))
			ctx := context.WithValue(req.Context(), middlewarectx.UserID, "u-1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCreateHandler_InstructionsMentionExactAmount(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockService)

	p := &models.Payment{ID: "p-1", UserID: "u-1", PlanID: "pro", Amount: 149456, Status: models.PaymentStatusPending}
	pl := &models.Plan{ID: "pro", Name: "Pro", Price: 149000}
	mockService.On("Create", mock.Anything, "u-1", "pro").Return(p, pl, nil)
	mockService.On("Bank").Return(models.BankInfo{Bank: "BCA", Number: "1234567890", Name: "ResellerHub"})

	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/create", strings.NewReader(`{"plan_id":"pro"}`))
	ctx := context.WithValue(req.Context(), middlewarectx.UserID, "u-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Transfer tepat Rp 149456")
	assert.Contains(t, rec.Body.String(), `"bank":"BCA"`)
}
