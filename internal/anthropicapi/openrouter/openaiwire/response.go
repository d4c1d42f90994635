package openaiwire

// ChatCompletionResponse is the body of a non-streaming
// /chat/completions response.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   Usage                  `json:"usage"`
}

// ChatCompletionChoice is one completion candidate; OpenRouter, like OpenAI,
// always returns exactly one when n is unset.
type ChatCompletionChoice struct {
	Index        int                   `json:"index"`
	Message      ChatCompletionMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

// ChatCompletionMessage is the assistant turn returned in a choice. Reasoning
// is OpenRouter's extension carrying the model's thinking trace.
type ChatCompletionMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Reasoning string     `json:"reasoning,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Usage is OpenAI-dialect token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModelsResponse is the body of GET /models.
type ModelsResponse struct {
	Data []Model `json:"data"`
}

// Model describes one model OpenRouter exposes, including the request
// parameters it accepts.
type Model struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name,omitempty"`
	SupportedParameters []string `json:"supported_parameters,omitempty"`
}
