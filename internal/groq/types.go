package groq

// Message одно сообщение диалога chat completions.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest тело запроса к chat completions API.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse ответ chat completions API.
type ChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}
