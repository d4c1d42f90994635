package openrouter

import "github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/openrouter/openaiwire"

// validateToolPairing drops unmatched tool_calls/tool turns from a
// translated (non-system) message list so the upstream only ever sees
// consistent pairs. It makes a single forward pass; backward lookups for
// "tool" turns inspect the input list, not the filtered output.
func validateToolPairing(messages []openaiwire.Message) []openaiwire.Message {
	validated := make([]openaiwire.Message, 0, len(messages))

	for i, msg := range messages {
		switch {
		case msg.Role == "assistant" && len(msg.ToolCalls) > 0:
			immediateToolIDs := map[string]struct{}{}
			for j := i + 1; j < len(messages) && messages[j].Role == "tool"; j++ {
				immediateToolIDs[messages[j].ToolCallID] = struct{}{}
			}

			valid := make([]openaiwire.ToolCall, 0, len(msg.ToolCalls))
			for _, tc := range msg.ToolCalls {
				if _, ok := immediateToolIDs[tc.ID]; ok {
					valid = append(valid, tc)
				}
			}

			current := msg
			if len(valid) > 0 {
				current.ToolCalls = valid
			} else {
				current.ToolCalls = nil
			}

			if hasContent(current.Content) || len(current.ToolCalls) > 0 {
				validated = append(validated, current)
			}

		case msg.Role == "tool":
			if toolTurnHasMatch(messages, i) {
				validated = append(validated, msg)
			}

		default:
			validated = append(validated, msg)
		}
	}

	return validated
}

// toolTurnHasMatch walks backward from index i, skipping intervening "tool"
// turns, and reports whether the first non-"tool" predecessor is an
// assistant turn whose tool_calls contains a matching id.
func toolTurnHasMatch(messages []openaiwire.Message, i int) bool {
	current := messages[i]
	for k := i - 1; k >= 0; k-- {
		prev := messages[k]
		if prev.Role == "tool" {
			continue
		}
		if prev.Role != "assistant" {
			return false
		}
		for _, tc := range prev.ToolCalls {
			if tc.ID == current.ToolCallID {
				return true
			}
		}
		return false
	}
	return false
}

func hasContent(content any) bool {
	s, ok := content.(string)
	if !ok {
		return content != nil
	}
	return s != ""
}
