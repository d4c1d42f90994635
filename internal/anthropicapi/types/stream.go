package types

// StreamEvent is the superset envelope the streaming translator emits: each
// value carries a Type discriminator and only the fields for that type are
// populated. Kept as one struct rather than an interface union because the
// SSE writer only needs Type plus a json.Marshal of the whole value per
// event, never a decoded switch over payload shape.
type StreamEvent struct {
	Type string `json:"type"`

	// message_start
	Message *MessageStartMsg `json:"message,omitempty"`

	// content_block_start / content_block_delta / content_block_stop. A
	// pointer so index 0 (the first and most common content block) still
	// marshals "index":0 instead of being dropped by omitempty, while
	// message_start/message_delta/message_stop (which carry no index at
	// all) omit the key entirely.
	Index        *int          `json:"index,omitempty"`
	ContentBlock *ContentBlock `json:"content_block,omitempty"`

	// content_block_delta
	Delta *Delta `json:"delta,omitempty"`

	// message_delta
	Usage *MessageDeltaUsage `json:"usage,omitempty"`

	// error
	Error *ErrorDetail `json:"error,omitempty"`
}

// MessageStartMsg is the partial Message carried by a message_start event:
// content is always empty and usage.output_tokens starts at one; the final
// output count is reported on message_delta.
type MessageStartMsg struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Model        string         `json:"model"`
	Content      []ContentBlock `json:"content"`
	StopReason   *string        `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        StartUsage     `json:"usage"`
}

// StartUsage is the usage block attached to message_start: only input_tokens
// is known at that point.
type StartUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

// Delta is the content_block_delta payload: exactly one of Text,
// PartialJSON, or Thinking is set depending on the block's mode, or for
// message_delta events StopReason/StopSequence are set instead.
type Delta struct {
	Type string `json:"type"`

	Text         string `json:"text,omitempty"`
	PartialJSON  string `json:"partial_json,omitempty"`
	Thinking     string `json:"thinking,omitempty"`
	Signature    string `json:"signature,omitempty"`

	StopReason   *string `json:"stop_reason,omitempty"`
	StopSequence *string `json:"stop_sequence,omitempty"`
}

// MessageDeltaUsage is the cumulative usage reported on the message_delta
// event: output_tokens only, input_tokens was already final at message_start.
type MessageDeltaUsage struct {
	OutputTokens int `json:"output_tokens"`
}
