// Package payment содержит бизнес-логику жизненного цикла платежа
// за тариф: создание заявки, загрузка чека перевода, подтверждение
// и отклонение привилегированным пользователем.
//
// Статусы двигаются только вперёд:
// pending -> waiting_confirmation -> confirmed | rejected.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/resellerhub/resellerhub/internal/lib/rabbitmq"
	"github.com/resellerhub/resellerhub/internal/lib/sl"
	"github.com/resellerhub/resellerhub/internal/models"
)

// planValidityDays срок действия оплаченного тарифа после подтверждения.
const planValidityDays = 30

// Ошибки уровня сервиса.
var (
	// ErrForbidden заявку чужого пользователя трогать нельзя.
	ErrForbidden = errors.New("payment belongs to another user")
	// ErrNotAdmin подтверждение и отклонение требуют админской роли.
	ErrNotAdmin = errors.New("administrative role required")
	// ErrAlreadyProcessed платёж уже в терминальном статусе,
	// повторное подтверждение отклоняется, а не игнорируется.
	ErrAlreadyProcessed = errors.New("payment already processed")
)

// Repository описывает контракт хранилища платежей и каталога тарифов.
type Repository interface {
	CreatePayment(ctx context.Context, p models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	AttachProof(ctx context.Context, paymentID, proofURL string) error
	// ConfirmPayment обязан выполнять запись статуса и повышение тарифа
	// владельца одной транзакцией.
	ConfirmPayment(ctx context.Context, paymentID, userID, planID, confirmerID string, expiresAt time.Time) error
	RejectPayment(ctx context.Context, paymentID string) error
	ListPaymentsByUser(ctx context.Context, userID string) ([]*models.Payment, error)
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
}

// Publisher публикует события платежей для внешних потребителей.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// ConfirmedEvent сообщение о подтверждённом платеже.
type ConfirmedEvent struct {
	PaymentID string    `json:"payment_id"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	Amount    int       `json:"amount"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PaymentService реализует жизненный цикл платежа.
type PaymentService struct {
	repo      Repository
	publisher Publisher
	bank      models.BankInfo
	log       *slog.Logger
}

// New создает новый экземпляр PaymentService.
// publisher может быть nil — тогда события не публикуются.
func New(repo Repository, publisher Publisher, bank models.BankInfo, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:      repo,
		publisher: publisher,
		bank:      bank,
		log:       log,
	}
}

// Bank возвращает реквизиты счёта для перевода.
func (s *PaymentService) Bank() models.BankInfo {
	return s.bank
}

// Create создает заявку на оплату тарифа. Сумма равна цене тарифа плюс
// случайный код 100..999, чтобы переводы были различимы по сумме.
func (s *PaymentService) Create(ctx context.Context, userID, planID string) (*models.Payment, *models.Plan, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, nil, err
	}

	uniqueCode := rand.IntN(900) + 100
	p := models.Payment{
		ID:       uuid.NewString(),
		UserID:   userID,
		PlanID:   plan.ID,
		PlanName: plan.Name,
		Amount:   plan.Price + uniqueCode,
		BankName: s.bank.Bank,
		Status:   models.PaymentStatusPending,
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, nil, err
	}
	return &p, plan, nil
}

// AttachProof прикрепляет ссылку на чек перевода. Разрешено только
// владельцу заявки и только до терминального статуса.
func (s *PaymentService) AttachProof(ctx context.Context, paymentID, proofURL, requesterID string) (*models.Payment, error) {
	p, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != requesterID {
		return nil, ErrForbidden
	}
	if isTerminal(p.Status) {
		return nil, ErrAlreadyProcessed
	}

	if err := s.repo.AttachProof(ctx, paymentID, proofURL); err != nil {
		return nil, err
	}
	return s.repo.GetPayment(ctx, paymentID)
}

// Confirm подтверждает платёж и повышает тариф владельца на 30 дней.
// Требует админской роли; повторное подтверждение отклоняется.
// Обе записи выполняются одной транзакцией хранилища.
func (s *PaymentService) Confirm(ctx context.Context, paymentID string, confirmer *models.User) (*models.Payment, error) {
	if confirmer.Role != models.RoleAdmin {
		return nil, ErrNotAdmin
	}

	p, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if isTerminal(p.Status) {
		return nil, ErrAlreadyProcessed
	}

	expiresAt := time.Now().UTC().AddDate(0, 0, planValidityDays)
	if err := s.repo.ConfirmPayment(ctx, paymentID, p.UserID, p.PlanID, confirmer.ID, expiresAt); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := ConfirmedEvent{
			PaymentID: p.ID,
			UserID:    p.UserID,
			PlanID:    p.PlanID,
			Amount:    p.Amount,
			ExpiresAt: expiresAt,
		}
		if err := s.publisher.Publish(rabbitmq.RoutingKeyPaymentConfirmed, event); err != nil {
			s.log.Error("failed to publish payment.confirmed", sl.Err(err))
		}
	}

	return s.repo.GetPayment(ctx, paymentID)
}

// Reject отклоняет платёж без изменения тарифа владельца.
// Требует админской роли.
func (s *PaymentService) Reject(ctx context.Context, paymentID string, confirmer *models.User) (*models.Payment, error) {
	if confirmer.Role != models.RoleAdmin {
		return nil, ErrNotAdmin
	}

	p, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if isTerminal(p.Status) {
		return nil, ErrAlreadyProcessed
	}

	if err := s.repo.RejectPayment(ctx, paymentID); err != nil {
		return nil, err
	}
	return s.repo.GetPayment(ctx, paymentID)
}

// ListByUser возвращает платежи пользователя, новые первыми.
func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	return s.repo.ListPaymentsByUser(ctx, userID)
}

func isTerminal(status string) bool {
	return status == models.PaymentStatusConfirmed || status == models.PaymentStatusRejected
}
