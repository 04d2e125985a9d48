// Package google реализует HTTP-обработчики входа через Google OAuth:
// редирект на страницу согласия и callback с обменом кода на сессию.
package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/resellerhub/resellerhub/internal/lib/sl"
	"github.com/resellerhub/resellerhub/internal/models"
	"github.com/resellerhub/resellerhub/internal/oauth"
)

// OAuthClient описывает интерфейс обмена кода авторизации на профиль Google.
type OAuthClient interface {
	BuildAuthURL() string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUserInfo(ctx context.Context, accessToken string) (*oauth.UserInfo, error)
}

// Service описывает интерфейс бизнес-логики OAuth-входа.
type Service interface {
	EnsureOAuthUser(ctx context.Context, email, name string) (*models.User, string, error)
}

// Handler управляет HTTP-запросами OAuth-входа через Google.
type Handler struct {
	log          *slog.Logger
	client       OAuthClient
	service      Service
	dashboardURL string
}

// New создает новый Handler. dashboardURL — адрес фронтенда,
// куда возвращается пользователь после входа.
func New(log *slog.Logger, client OAuthClient, service Service, dashboardURL string) *Handler {
	return &Handler{
		log:          log,
		client:       client,
		service:      service,
		dashboardURL: dashboardURL,
	}
}

// Redirect godoc
// @Summary Начать вход через Google
// @Description Перенаправляет на страницу согласия Google OAuth.
// @Tags Auth
// @Success 302 "Редирект на Google"
// @Router /auth/google [get]
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.client.BuildAuthURL(), http.StatusFound)
}

// Callback godoc
// @Summary Завершить вход через Google
// @Description Обменивает код авторизации на токен сессии и перенаправляет на фронтенд.
// @Tags Auth
// @Param code query string false "Код авторизации Google"
// @Param error query string false "Ошибка от Google"
// @Success 302 "Редирект на фронтенд с токеном"
// @Router /auth/google/callback [get]
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.google.callback"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		log.Info("oauth rejected by user", slog.String("reason", errParam))
		h.redirectError(w, r, errParam)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		log.Error("callback without code")
		h.redirectError(w, r, "no_code")
		return
	}

	accessToken, err := h.client.ExchangeCode(r.Context(), code)
	if err != nil {
		log.Error("code exchange failed", sl.Err(err))
		h.redirectError(w, r, "token_failed")
		return
	}

	info, err := h.client.FetchUserInfo(r.Context(), accessToken)
	if err != nil {
		log.Error("userinfo request failed", sl.Err(err))
		h.redirectError(w, r, "no_email")
		return
	}

	user, token, err := h.service.EnsureOAuthUser(r.Context(), info.Email, info.Name)
	if err != nil {
		log.Error("oauth login failed", sl.Err(err))
		h.redirectError(w, r, "oauth_failed")
		return
	}

	log.Info("oauth login succeeded", slog.String("user_id", user.ID))

	profile, err := json.Marshal(map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"plan":  user.Plan,
	})
	if err != nil {
		log.Error("failed to encode profile", sl.Err(err))
		h.redirectError(w, r, "oauth_failed")
		return
	}

	params := url.Values{}
	params.Set("token", token)
	params.Set("user", string(profile))
	http.Redirect(w, r, h.dashboardURL+"?"+params.Encode(), http.StatusFound)
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, reason string) {
	params := url.Values{}
	params.Set("error", reason)
	http.Redirect(w, r, h.dashboardURL+"?"+params.Encode(), http.StatusFound)
}
