package openrouter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/openrouter/openaiwire"
	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/types"
)

// TranslateResponse converts a non-streaming OpenAI-compatible completion
// into an Anthropic message response. model is the resolved upstream id
// actually used for the request (matching the streaming path), not
// necessarily the name the client originally sent.
func TranslateResponse(resp openaiwire.ChatCompletionResponse, model string) types.MessagesResponse {
	var choice openaiwire.ChatCompletionChoice
	if len(resp.Choices) > 0 {
		choice = resp.Choices[0]
	}
	message := choice.Message

	var content []types.ContentBlock

	if message.Reasoning != "" {
		content = append(content, types.ContentBlock{
			Type:      "thinking",
			Thinking:  message.Reasoning,
			Signature: "openrouter-reasoning",
		})
	}
	if message.Content != "" {
		content = append(content, types.ContentBlock{Type: "text", Text: message.Content})
	}
	for _, tc := range message.ToolCalls {
		var input map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &input); err != nil {
			input = map[string]any{}
		}
		content = append(content, types.ContentBlock{
			Type:  "tool_use",
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: input,
		})
	}

	hasToolCalls := choice.FinishReason == "tool_calls" || len(message.ToolCalls) > 0
	stopReason := string(anthropic.StopReasonEndTurn)
	if hasToolCalls {
		stopReason = string(anthropic.StopReasonToolUse)
	}

	return types.MessagesResponse{
		ID:           fmt.Sprintf("msg_%d", currentEpochMillis()),
		Type:         "message",
		Role:         "assistant",
		Model:        model,
		Content:      content,
		StopReason:   stopReason,
		StopSequence: nil,
		Usage: types.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
}

func currentEpochMillis() int64 {
	return time.Now().UnixMilli()
}
