package openrouter

import (
	"encoding/json"
	"strings"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/openrouter/openaiwire"
	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/types"
)

// TranslateRequest converts an Anthropic Messages request into the
// OpenAI-compatible body sent upstream.
func TranslateRequest(body types.MessagesRequest, resolver *Resolver) openaiwire.ChatCompletionRequest {
	model := resolver.Resolve(body.Model)

	messages := make([]openaiwire.Message, 0, len(body.Messages)+1)
	messages = append(messages, translateSystem(body.System, model)...)
	messages = append(messages, validateToolPairing(translateMessages(body.Messages))...)

	out := openaiwire.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   body.Stream != nil && *body.Stream,
	}

	if body.Temperature != nil {
		out.Temperature = body.Temperature
	}
	if body.MaxTokens != nil {
		out.MaxTokens = body.MaxTokens
	}
	if body.TopP != nil {
		out.TopP = body.TopP
	}
	if body.TopK != nil {
		out.TopK = body.TopK
	}
	if len(body.StopSequences) > 0 {
		out.Stop = body.StopSequences
	}

	switch {
	case len(body.Reasoning) > 0:
		out.Reasoning = body.Reasoning
	case body.Thinking != nil && body.Thinking.Type == "enabled":
		out.Reasoning, _ = json.Marshal(map[string]any{"max_tokens": body.Thinking.BudgetTokens})
	}
	if len(body.ReasoningEffort) > 0 {
		out.ReasoningEffort = body.ReasoningEffort
	}

	if body.ToolChoice != nil {
		out.ToolChoice = translateToolChoice(*body.ToolChoice)
	}
	if len(body.Tools) > 0 {
		out.Tools = translateTools(body.Tools)
	}

	return out
}

func translateSystem(system *types.System, model string) []openaiwire.Message {
	if system == nil {
		return nil
	}

	cache := strings.Contains(model, "claude")

	part := func(text string) openaiwire.SystemContentPart {
		p := openaiwire.SystemContentPart{Type: "text", Text: text}
		if cache {
			p.CacheControl = &openaiwire.CacheControl{Type: "ephemeral"}
		}
		return p
	}

	if system.IsString() {
		return []openaiwire.Message{{
			Role:    "system",
			Content: []openaiwire.SystemContentPart{part(*system.Str)},
		}}
	}

	turns := make([]openaiwire.Message, 0, len(system.Parts))
	for _, p := range system.Parts {
		turns = append(turns, openaiwire.Message{
			Role:    "system",
			Content: []openaiwire.SystemContentPart{part(p.Text)},
		})
	}
	return turns
}

func translateMessages(msgs []types.Message) []openaiwire.Message {
	out := make([]openaiwire.Message, 0, len(msgs))

	for _, msg := range msgs {
		if msg.Content.IsString() {
			if msg.Role == "user" || msg.Role == "assistant" {
				out = append(out, openaiwire.Message{Role: msg.Role, Content: *msg.Content.Str})
			}
			continue
		}

		switch msg.Role {
		case "assistant":
			if m, ok := translateAssistantParts(msg.Content.Parts); ok {
				out = append(out, m)
			}
		case "user":
			out = append(out, translateUserParts(msg.Content.Parts)...)
		}
	}

	return out
}

func translateAssistantParts(parts []types.ContentPart) (openaiwire.Message, bool) {
	var textParts []string
	var toolCalls []openaiwire.ToolCall

	for _, part := range parts {
		switch part.Type {
		case types.ContentPartText:
			textParts = append(textParts, part.TextString())
		case types.ContentPartToolUse:
			args, _ := json.Marshal(part.Input)
			toolCalls = append(toolCalls, openaiwire.ToolCall{
				ID:   part.ID,
				Type: "function",
				Function: openaiwire.ToolCallFunc{
					Name:      part.Name,
					Arguments: string(args),
				},
			})
		}
	}

	text := strings.TrimSpace(strings.Join(textParts, "\n"))
	if text == "" && len(toolCalls) == 0 {
		return openaiwire.Message{}, false
	}

	msg := openaiwire.Message{Role: "assistant", ToolCalls: toolCalls}
	if text != "" {
		msg.Content = text
	}
	return msg, true
}

func translateUserParts(parts []types.ContentPart) []openaiwire.Message {
	var out []openaiwire.Message
	var textParts []string

	for _, part := range parts {
		switch part.Type {
		case types.ContentPartText:
			textParts = append(textParts, part.TextString())
		case types.ContentPartToolResult:
			out = append(out, openaiwire.Message{
				Role:       "tool",
				ToolCallID: part.ToolUseID,
				Content:    part.ResultString(),
			})
		}
	}

	text := strings.TrimSpace(strings.Join(textParts, "\n"))
	if text != "" {
		out = append([]openaiwire.Message{{Role: "user", Content: text}}, out...)
	}
	return out
}

func translateToolChoice(tc types.ToolChoice) any {
	if tc.Str != nil {
		return *tc.Str
	}
	switch tc.Type {
	case "auto":
		return "auto"
	case "any":
		return "required"
	case "tool":
		return map[string]any{
			"type":     "function",
			"function": map[string]any{"name": tc.Name},
		}
	}
	return nil
}

func translateTools(tools []types.Tool) []openaiwire.Tool {
	out := make([]openaiwire.Tool, 0, len(tools))
	for _, t := range tools {
		params := t.InputSchema
		if params == nil {
			params = map[string]any{}
		}
		out = append(out, openaiwire.Tool{
			Type: "function",
			Function: openaiwire.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return out
}
