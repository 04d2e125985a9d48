// Package remove реализует HTTP-обработчик удаления товара из каталога.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/resellerhub/resellerhub/internal/http/middlewarectx"
	"github.com/resellerhub/resellerhub/internal/http/response"
	"github.com/resellerhub/resellerhub/internal/lib/sl"
	"github.com/resellerhub/resellerhub/internal/storage/repository"
)

// Service описывает интерфейс удаления товара.
type Service interface {
	Remove(ctx context.Context, productID, userID string) error
}

// Handler управляет HTTP-запросами на удаление товара.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить товар
// @Description Удаляет товар текущего пользователя по идентификатору.
// @Tags Products
// @Produce  json
// @Security BearerAuth
// @Param id path string true "Идентификатор товара"
// @Success 200 {object} response.Response "Товар удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.remove"
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

	productID := chi.URLParam(r, "id")

	err := h.service.Remove(r.Context(), productID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("product not found", slog.String("product_id", productID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}
	if err != nil {
		log.Error("failed to remove product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove product"))
		return
	}

	log.Info("product removed", slog.String("product_id", productID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "product removed",
	}))
}
