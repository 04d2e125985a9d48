// Package dashboard реализует HTTP-обработчик сводки каталога:
// итоги по товарам, стоимость склада, потенциальная выручка и топ товаров.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/resellerhub/resellerhub/internal/http/middlewarectx"
	"github.com/resellerhub/resellerhub/internal/http/response"
	"github.com/resellerhub/resellerhub/internal/lib/sl"
	"github.com/resellerhub/resellerhub/internal/models"
)

// Service описывает интерфейс аналитики каталога.
type Service interface {
	Dashboard(ctx context.Context, userID string) (*models.DashboardSummary, error)
}

// Handler управляет HTTP-запросами сводки каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводка каталога
// @Description Возвращает агрегаты по каталогу текущего пользователя и топ-5 товаров по стоимости остатка.
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.DashboardSummary "Сводка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /analytics/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.dashboard"
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

	summary, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build dashboard"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(summary))
}
