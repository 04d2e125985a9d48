// Package confirm реализует HTTP-обработчик действий над платежом:
// прикрепление бумаги об оплате владельцем и подтверждение или отклонение
// платежа администратором.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/resellerhub/resellerhub/internal/http/middlewarectx"
	"github.com/resellerhub/resellerhub/internal/http/response"
	"github.com/resellerhub/resellerhub/internal/lib/sl"
	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/services/payment"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// Действия над платежом.
const (
	ActionUploadProof = "upload_proof"
	ActionConfirm     = "confirm"
	ActionReject      = "reject"
)

// Request — входные данные действия над платежом
type Request struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=upload_proof confirm reject"`
	ProofURL  string `json:"proof_url,omitempty"`
}

// Service описывает интерфейс бизнес-логики действий над платежом.
type Service interface {
	AttachProof(ctx context.Context, paymentID, proofURL, requesterID string) (*models.Payment, error)
	Confirm(ctx context.Context, paymentID string, confirmer *models.User) (*models.Payment, error)
	Reject(ctx context.Context, paymentID string, confirmer *models.User) (*models.Payment, error)
}

// Handler управляет HTTP-запросами действий над платежом.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Действие над платежом
// @Description Владелец прикрепляет бумагу об оплате (upload_proof), администратор подтверждает (confirm) или отклоняет (reject) платеж.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Платеж и действие"
// @Success 200 {object} response.Response "Обновленный платеж"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет прав на действие"
// @Failure 404 {object} response.ErrorResponse "Платеж не найден"
// @Failure 409 {object} response.ErrorResponse "Платеж уже обработан"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payment/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("missing user id in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}
	role, _ := middlewarectx.RoleFromContext(r.Context())

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var (
		updated *models.Payment
		err     error
	)
	switch req.Action {
	case ActionUploadProof:
		if req.ProofURL == "" {
			log.Error("upload_proof without proof_url")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("field proof_url is a required field"))
			return
		}
		updated, err = h.service.AttachProof(r.Context(), req.PaymentID, req.ProofURL, userID)
	case ActionConfirm:
		updated, err = h.service.Confirm(r.Context(), req.PaymentID, &models.User{ID: userID, Role: role})
	case ActionReject:
		updated, err = h.service.Reject(r.Context(), req.PaymentID, &models.User{ID: userID, Role: role})
	}

	switch {
	case errors.Is(err, payment.ErrNotAdmin), errors.Is(err, payment.ErrForbidden):
		log.Info("action forbidden", slog.String("action", req.Action))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden"))
		return
	case errors.Is(err, payment.ErrAlreadyProcessed):
		log.Info("payment already processed", slog.String("payment_id", req.PaymentID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("payment already processed"))
		return
	case errors.Is(err, repository.ErrNotFound):
		log.Info("payment not found", slog.String("payment_id", req.PaymentID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("payment not found"))
		return
	case err != nil:
		log.Error("payment action failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process payment"))
		return
	}

	log.Info("payment action applied",
		slog.String("payment_id", updated.ID),
		slog.String("action", req.Action),
		slog.String("status", updated.Status))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{"payment": updated}))
}
