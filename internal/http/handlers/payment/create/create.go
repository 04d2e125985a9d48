// Package create реализует HTTP-обработчик выставления счета на оплату тарифа.
//
// Handler создает платеж с уникальным 3-значным кодом в сумме и возвращает
// реквизиты банка с инструкцией по переводу.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/resellerhub/resellerhub/internal/http/middlewarectx"
	"github.com/resellerhub/resellerhub/internal/http/response"
	"github.com/resellerhub/resellerhub/internal/lib/sl"
	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// Request — входные данные для выставления счета
type Request struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// Service описывает интерфейс бизнес-логики оплаты.
type Service interface {
	Create(ctx context.Context, userID, planID string) (*models.Payment, *models.Plan, error)
	Bank() models.BankInfo
}

// Handler управляет HTTP-запросами на выставление счета.
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
// @Summary Выставить счет на оплату тарифа
// @Description Создает платеж с уникальным кодом в сумме и возвращает реквизиты банка.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Идентификатор тарифа"
// @Success 201 {object} response.Response "Платеж, реквизиты и инструкция"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Тариф не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payment/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
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

	payment, plan, err := h.service.Create(r.Context(), userID, req.PlanID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("plan not found", slog.String("plan_id", req.PlanID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("plan not found"))
		return
	}
	if err != nil {
		log.Error("failed to create payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create payment"))
		return
	}

	log.Info("payment created",
		slog.String("payment_id", payment.ID),
		slog.Int("amount", payment.Amount))

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Pembayaran berhasil dibuat",
		"payment": map[string]any{
			"id":          payment.ID,
			"plan":        plan.Name,
			"amount":      payment.Amount,
			"unique_code": payment.Amount - plan.Price,
		},
		"bank": h.service.Bank(),
		"instructions": []string{
			fmt.Sprintf("Transfer tepat Rp %d ke rekening di atas", payment.Amount),
			"Pastikan nominal transfer SAMA PERSIS termasuk 3 digit unik",
			"Upload bukti transfer setelah pembayaran",
			"Pembayaran akan diverifikasi dalam 1x24 jam",
		},
	}))
}
