package openrouter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/openrouter/openaiwire"
	"github.com/mkaymak/claude-openrouter-proxy/internal/anthropicapi/types"
)

// blockMode is the kind of content block currently open in the translated
// Anthropic stream, if any.
type blockMode int

const (
	modeNone blockMode = iota
	modeText
	modeThinking
	modeToolUse
)

// streamState is the state machine driving one streaming translation. It is
// not safe for concurrent use; one instance belongs to exactly one request.
type streamState struct {
	index         int
	mode          blockMode
	currentToolID string
	toolBuffers   map[string]*strings.Builder
	usage         openaiwire.Usage
	model         string
	inputTokens   int
}

func newStreamState(model string, inputTokens int) *streamState {
	return &streamState{
		mode:        modeNone,
		toolBuffers: map[string]*strings.Builder{},
		model:       model,
		inputTokens: inputTokens,
	}
}

// TranslateStream reads raw OpenAI-compatible SSE lines from r and returns an
// iterator of Anthropic stream events. Iteration stops after message_stop is
// produced, or on a read error from r (surfaced as the iterator's error
// value). Upstream HTTP errors are not handled here; r must already be a
// successful response body.
func TranslateStream(r io.Reader, model string, inputTokens int) iter.Seq2[*types.StreamEvent, error] {
	return func(yield func(*types.StreamEvent, error) bool) {
		st := newStreamState(model, inputTokens)

		if !yield(st.messageStart(), nil) {
			return
		}

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			if payload == "[DONE]" {
				continue
			}

			var chunk openaiwire.ChatCompletionChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue
			}

			for _, ev := range st.handleChunk(chunk) {
				if !yield(ev, nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("read upstream stream: %w", err))
			return
		}

		for _, ev := range st.finish() {
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func (st *streamState) messageStart() *types.StreamEvent {
	return &types.StreamEvent{
		Type: "message_start",
		Message: &types.MessageStartMsg{
			ID:      fmt.Sprintf("msg_%d", currentEpochMillis()),
			Type:    "message",
			Role:    "assistant",
			Content: []types.ContentBlock{},
			Model:   st.model,
			Usage:   types.StartUsage{InputTokens: st.inputTokens, OutputTokens: 1},
		},
	}
}

func (st *streamState) handleChunk(chunk openaiwire.ChatCompletionChunk) []*types.StreamEvent {
	if chunk.Usage != nil {
		st.usage = *chunk.Usage
	}
	if len(chunk.Choices) == 0 {
		return nil
	}
	delta := chunk.Choices[0].Delta

	switch {
	case len(delta.ToolCalls) > 0:
		return st.handleToolCallDelta(delta.ToolCalls)
	case delta.Reasoning != "":
		return st.handleReasoningDelta(delta.Reasoning)
	case delta.Content != "":
		return st.handleContentDelta(delta.Content)
	}
	return nil
}

func (st *streamState) handleToolCallDelta(calls []openaiwire.ChunkToolCall) []*types.StreamEvent {
	var events []*types.StreamEvent

	for _, tc := range calls {
		if tc.ID != "" && tc.ID != st.currentToolID {
			if st.mode != modeNone {
				events = append(events, st.closeBlock())
				st.index++
			}
			st.mode = modeToolUse
			st.currentToolID = tc.ID
			st.toolBuffers[tc.ID] = &strings.Builder{}

			events = append(events, &types.StreamEvent{
				Type:  "content_block_start",
				Index: intPtr(st.index),
				ContentBlock: &types.ContentBlock{
					Type:  "tool_use",
					ID:    tc.ID,
					Name:  tc.Function.Name,
					Input: map[string]any{},
				},
			})
		}

		if tc.Function.Arguments != "" && st.currentToolID != "" {
			if buf, ok := st.toolBuffers[st.currentToolID]; ok {
				buf.WriteString(tc.Function.Arguments)
			}
			events = append(events, &types.StreamEvent{
				Type:  "content_block_delta",
				Index: intPtr(st.index),
				Delta: &types.Delta{Type: "input_json_delta", PartialJSON: tc.Function.Arguments},
			})
		}
	}

	return events
}

func (st *streamState) handleReasoningDelta(reasoning string) []*types.StreamEvent {
	var events []*types.StreamEvent

	if st.mode == modeText || st.mode == modeToolUse {
		events = append(events, st.closeBlock())
		st.mode = modeNone
		st.currentToolID = ""
		st.index++
	}
	if st.mode != modeThinking {
		events = append(events, &types.StreamEvent{
			Type:  "content_block_start",
			Index: intPtr(st.index),
			ContentBlock: &types.ContentBlock{
				Type:      "thinking",
				Thinking:  "",
				Signature: "openrouter-reasoning",
			},
		})
		st.mode = modeThinking
	}

	events = append(events, &types.StreamEvent{
		Type:  "content_block_delta",
		Index: intPtr(st.index),
		Delta: &types.Delta{Type: "thinking_delta", Thinking: reasoning},
	})
	return events
}

func (st *streamState) handleContentDelta(content string) []*types.StreamEvent {
	var events []*types.StreamEvent

	if st.mode == modeThinking || st.mode == modeToolUse {
		events = append(events, st.closeBlock())
		st.mode = modeNone
		st.currentToolID = ""
		st.index++
	}
	if st.mode != modeText {
		events = append(events, &types.StreamEvent{
			Type:         "content_block_start",
			Index:        intPtr(st.index),
			ContentBlock: &types.ContentBlock{Type: "text", Text: ""},
		})
		st.mode = modeText
	}

	events = append(events, &types.StreamEvent{
		Type:  "content_block_delta",
		Index: intPtr(st.index),
		Delta: &types.Delta{Type: "text_delta", Text: content},
	})
	return events
}

func (st *streamState) closeBlock() *types.StreamEvent {
	return &types.StreamEvent{Type: "content_block_stop", Index: intPtr(st.index)}
}

func (st *streamState) finish() []*types.StreamEvent {
	var events []*types.StreamEvent

	if st.mode != modeNone {
		events = append(events, st.closeBlock())
	}

	stopReason := string(anthropic.StopReasonEndTurn)
	if st.mode == modeToolUse {
		stopReason = string(anthropic.StopReasonToolUse)
	}

	events = append(events, &types.StreamEvent{
		Type:  "message_delta",
		Delta: &types.Delta{StopReason: &stopReason, StopSequence: nil},
		Usage: &types.MessageDeltaUsage{OutputTokens: st.usage.CompletionTokens},
	})
	events = append(events, &types.StreamEvent{Type: "message_stop"})
	return events
}
