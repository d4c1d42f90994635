package openaiwire

import "encoding/json"

// ChatCompletionRequest is the body this proxy sends upstream to OpenRouter's
// POST /api/v1/chat/completions.
type ChatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`

	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int64   `json:"max_tokens,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int64   `json:"top_k,omitempty"`
	Stop        []string `json:"stop,omitempty"`

	// Reasoning and ReasoningEffort are forwarded as opaque JSON from the
	// inbound request; this proxy never inspects their shape.
	Reasoning       json.RawMessage `json:"reasoning,omitempty"`
	ReasoningEffort json.RawMessage `json:"reasoning_effort,omitempty"`

	ToolChoice any    `json:"tool_choice,omitempty"`
	Tools      []Tool `json:"tools,omitempty"`
}

// Message is one OpenAI-dialect chat message. Content is a plain string for
// user/assistant/tool turns, or a []SystemContentPart list for system turns. ToolCalls is populated on assistant turns
// that invoke tools; ToolCallID identifies which call a "tool" role message
// answers.
type Message struct {
	Role       string     `json:"role"`
	Content    any        `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// SystemContentPart is one part of a list-form system message, optionally
// marked for upstream prompt caching.
type SystemContentPart struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	CacheControl *CacheControl `json:"cache_control,omitempty"`
}

// CacheControl marks a content part as an upstream prompt-cache breakpoint.
type CacheControl struct {
	Type string `json:"type"`
}

// ToolCall is one function call emitted by the assistant, or requested of
// it via Message.ToolCalls.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolCallFunc `json:"function"`
}

// ToolCallFunc carries a tool call's name and JSON-encoded argument string.
type ToolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Tool is an OpenAI-dialect function tool definition.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction carries a tool's name, description, and JSON Schema
// parameters.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}
