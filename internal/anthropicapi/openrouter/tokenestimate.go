package openrouter

import (
	"unicode/utf8"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/types"
)

// EstimateTokens returns a character-counting approximation of the request's
// token count: the total character count of all system and message text
// divided by four, rounded up. Used for the streaming preamble's
// input_tokens estimate and the token-count endpoint.
func EstimateTokens(body types.MessagesRequest) int {
	chars := 0

	if body.System != nil {
		if body.System.IsString() {
			chars += utf8.RuneCountInString(*body.System.Str)
		} else {
			for _, p := range body.System.Parts {
				chars += utf8.RuneCountInString(p.Text)
			}
		}
	}

	for _, msg := range body.Messages {
		if msg.Content.IsString() {
			chars += utf8.RuneCountInString(*msg.Content.Str)
			continue
		}
		for _, part := range msg.Content.Parts {
			if part.Type == types.ContentPartText {
				chars += utf8.RuneCountInString(part.TextString())
			}
		}
	}

	return (chars + 3) / 4
}
