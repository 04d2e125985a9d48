// Package suggest реализует HTTP-обработчик AI-подсказок для реселлера.
package suggest

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
	"github.com/resellerhub/resellerhub/internal/services/ai"
)

// Request — входные данные запроса подсказки
type Request struct {
	Action string `json:"action" validate:"required,oneof=price description tips chat"`
	Data   struct {
		Product ai.ProductInput `json:"product"`
		Context ai.ContextInput `json:"context"`
		Message string          `json:"message"`
	} `json:"data"`
}

// Service описывает интерфейс бизнес-логики AI-подсказок.
type Service interface {
	Suggest(ctx context.Context, action string, input ai.Input) (string, error)
}

// Handler управляет HTTP-запросами AI-подсказок.
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
// @Summary AI-подсказка
// @Description Выполняет действие price, description, tips или chat и возвращает текст от языковой модели.
// @Tags AI
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Действие и данные"
// @Success 200 {object} response.Response "Текст подсказки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ошибка валидации или неизвестное действие"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Провайдер модели недоступен"
// @Router /ai [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.suggest"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if _, ok := middlewarectx.UserIDFromContext(r.Context()); !ok {
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

	result, err := h.service.Suggest(r.Context(), req.Action, ai.Input{
		Product: req.Data.Product,
		Context: req.Data.Context,
		Message: req.Data.Message,
	})
	if errors.Is(err, ai.ErrUnknownAction) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown action"))
		return
	}
	if errors.Is(err, ai.ErrUpstream) {
		log.Error("ai provider unavailable", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("ai service unavailable"))
		return
	}
	if err != nil {
		log.Error("suggestion failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get suggestion"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"action": req.Action,
		"result": result,
	}))
}
