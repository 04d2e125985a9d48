// Package ai реализует бизнес-логику AI-подсказок для реселлеров:
// подбор цены, описание товара, советы и свободный чат.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resellerhub/resellerhub/internal/lib/sl"
)

// Ошибки бизнес-логики AI-подсказок.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUpstream      = errors.New("ai provider unavailable")
)

// Действия, доступные клиенту.
const (
	ActionPrice       = "price"
	ActionDescription = "description"
	ActionTips        = "tips"
	ActionChat        = "chat"
)

// Chatter интерфейс LLM-провайдера.
type Chatter interface {
	Chat(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// ProductInput параметры товара для действий price и description.
type ProductInput struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	CostPrice int    `json:"cost_price"`
	SellPrice int    `json:"sell_price"`
}

// ContextInput контекст аккаунта для действия tips.
type ContextInput struct {
	TotalProducts int `json:"totalProducts"`
}

// Input полезная нагрузка запроса подсказки.
type Input struct {
	Product ProductInput
	Context ContextInput
	Message string
}

// AIService сервис AI-подсказок.
type AIService struct {
	chatter Chatter
	log     *slog.Logger
}

// New создаёт новый сервис AI-подсказок.
func New(chatter Chatter, log *slog.Logger) *AIService {
	return &AIService{chatter: chatter, log: log}
}

// Suggest выполняет действие action и возвращает текст подсказки.
func (s *AIService) Suggest(ctx context.Context, action string, input Input) (string, error) {
	const op = "services.ai.Suggest"

	var prompt, systemPrompt string
	switch action {
	case ActionPrice:
		prompt = fmt.Sprintf(
			"Produk: %s\nHarga Modal: Rp %d\nHarga Jual: Rp %d\n\nBerikan saran harga optimal dalam JSON: {\"suggested_price\": number, \"reason\": \"string\", \"tips\": [\"string\"]}",
			input.Product.Name, input.Product.CostPrice, input.Product.SellPrice)
		systemPrompt = "Kamu adalah AI untuk bisnis reseller Indonesia. Jawab dalam Bahasa Indonesia."
	case ActionDescription:
		prompt = fmt.Sprintf(
			"Buat deskripsi produk marketplace untuk: %s\nKategori: %s\n\nBuat dengan emoji, bullet points, dan call-to-action.",
			input.Product.Name, input.Product.Category)
		systemPrompt = "Kamu adalah copywriter marketplace Indonesia (Shopee, Tokopedia)."
	case ActionTips:
		prompt = fmt.Sprintf(
			"Berikan 3 tips bisnis untuk reseller dengan %d produk.",
			input.Context.TotalProducts)
		systemPrompt = "Kamu adalah mentor bisnis reseller Indonesia."
	case ActionChat:
		prompt = input.Message
		systemPrompt = "Kamu adalah AI assistant untuk reseller Indonesia."
	default:
		return "", fmt.Errorf("%s: %w", op, ErrUnknownAction)
	}

	result, err := s.chatter.Chat(ctx, prompt, systemPrompt)
	if err != nil {
		s.log.Error("llm request failed", slog.String("op", op),
			slog.String("action", action), sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, ErrUpstream)
	}
	return result, nil
}
