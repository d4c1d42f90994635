package types

import "encoding/json"

// ContentPartType is the closed set of kinds a request-side content part can
// carry.
type ContentPartType string

const (
	ContentPartText       ContentPartType = "text"
	ContentPartToolUse    ContentPartType = "tool_use"
	ContentPartToolResult ContentPartType = "tool_result"
)

// ContentPart is one element of a Message.Content parts list. Exactly one
// group of fields is meaningful for a given Type: Text for "text"; ID/Name/
// Input for "tool_use"; ToolUseID/Content for "tool_result".
type ContentPart struct {
	Type ContentPartType `json:"type"`

	// text
	Text json.RawMessage `json:"text,omitempty"`

	// tool_use (assistant turns only)
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// tool_result (user turns only)
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// TextString returns the text part's value as a string, JSON-encoding it
// first if the source payload carried something other than a JSON string
// (per spec, non-string text is re-encoded rather than rejected).
func (c ContentPart) TextString() string {
	return stringOrJSON(c.Text)
}

// ResultString returns the tool_result part's content as a string, the raw
// string if the source was a JSON string, otherwise the JSON encoding of
// whatever value was carried.
func (c ContentPart) ResultString() string {
	return stringOrJSON(c.Content)
}

func stringOrJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ContentBlock is one element of a response's content list: the Anthropic
// output-side block shape (text | thinking | tool_use), also reused as the
// content_block payload of a content_block_start stream event.
type ContentBlock struct {
	Type string `json:"type"`

	Text string `json:"text,omitempty"`

	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`

	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`
}
