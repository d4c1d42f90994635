package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MessagesRequest is the body of a POST /v1/messages request in Anthropic's
// Messages API dialect.
type MessagesRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	System   *System   `json:"system,omitempty"`

	Temperature   *float64 `json:"temperature,omitempty"`
	TopP          *float64 `json:"top_p,omitempty"`
	TopK          *int64   `json:"top_k,omitempty"`
	MaxTokens     *int64   `json:"max_tokens,omitempty"`
	StopSequences []string `json:"stop_sequences,omitempty"`

	// Reasoning and ReasoningEffort are OpenRouter passthrough extensions,
	// not part of the published Anthropic schema; they are opaque to this
	// proxy and forwarded verbatim when present.
	Reasoning       json.RawMessage `json:"reasoning,omitempty"`
	ReasoningEffort json.RawMessage `json:"reasoning_effort,omitempty"`
	Thinking        *Thinking       `json:"thinking,omitempty"`

	Tools      []Tool      `json:"tools,omitempty"`
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`

	Stream *bool `json:"stream,omitempty"`
}

// Thinking carries Anthropic's extended-thinking configuration.
type Thinking struct {
	Type         string `json:"type"`
	BudgetTokens int64  `json:"budget_tokens,omitempty"`
}

// Message is one turn of the conversation. Content is either a plain string
// or an ordered sequence of ContentPart values.
type Message struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent is the string|[]ContentPart union carried by Message.Content.
type MessageContent struct {
	Str   *string
	Parts []ContentPart
}

// IsString reports whether the content was a plain string rather than a
// parts list.
func (m MessageContent) IsString() bool { return m.Str != nil }

func (m *MessageContent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode string content: %w", err)
		}
		m.Str = &s
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("decode content parts: %w", err)
	}
	m.Parts = parts
	return nil
}

// System is the absent|string|[]SystemPart union carried by the request's
// top-level system field.
type System struct {
	Str   *string
	Parts []SystemPart
}

// IsString reports whether the system prompt was a plain string rather than
// a list of parts.
func (s System) IsString() bool { return s.Str != nil }

// SystemPart is one entry of a list-form system prompt.
type SystemPart struct {
	Text string `json:"text"`
}

func (s *System) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("decode string system: %w", err)
		}
		s.Str = &str
		return nil
	}
	var parts []SystemPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("decode system parts: %w", err)
	}
	s.Parts = parts
	return nil
}

// Tool is an Anthropic tool definition.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// ToolChoice is the string|object union of the request's tool_choice field.
// When Str is nil, Type/Name carry the object form (type ∈ {auto, any,
// tool}; Name is only meaningful for type == "tool").
type ToolChoice struct {
	Str  *string
	Type string
	Name string
}

func (t *ToolChoice) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode string tool_choice: %w", err)
		}
		t.Str = &s
		return nil
	}
	var obj struct {
		Type string `json:"type"`
		Name string `json:"name,omitempty"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode tool_choice object: %w", err)
	}
	t.Type = obj.Type
	t.Name = obj.Name
	return nil
}
