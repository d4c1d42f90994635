package openrouter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslateRequest_SimpleMapAndTranslate(t *testing.T) {
	registry := registryWithModels(t, []registryModel{
		{ID: "anthropic/claude-sonnet-4.5", Created: 100},
	})
	resolver := NewResolver(registry, "")

	body := decodeRequest(t, `{
		"model": "claude-3-5-sonnet",
		"messages": [{"role": "user", "content": "Hello"}]
	}`)

	out := TranslateRequest(body, resolver)

	require.Equal(t, "anthropic/claude-sonnet-4.5", out.Model)
	require.Len(t, out.Messages, 1)
	require.Equal(t, "user", out.Messages[0].Role)
	require.Equal(t, "Hello", out.Messages[0].Content)
}

func TestTranslateRequest_ToolRoundTrip(t *testing.T) {
	registry := NewRegistry("https://example.test", "")
	resolver := NewResolver(registry, "")

	body := decodeRequest(t, `{
		"model": "claude-3-5-sonnet",
		"messages": [
			{"role": "assistant", "content": [
				{"type": "tool_use", "id": "tool_123", "name": "get_weather", "input": {"location": "NYC"}}
			]},
			{"role": "user", "content": [
				{"type": "tool_result", "tool_use_id": "tool_123", "content": "Sunny, 72F"}
			]}
		]
	}`)

	out := TranslateRequest(body, resolver)

	require.Len(t, out.Messages, 2)

	assistant := out.Messages[0]
	require.Equal(t, "assistant", assistant.Role)
	require.Len(t, assistant.ToolCalls, 1)
	require.Equal(t, "tool_123", assistant.ToolCalls[0].ID)

	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(assistant.ToolCalls[0].Function.Arguments), &args))
	require.Equal(t, "NYC", args["location"])

	toolTurn := out.Messages[1]
	require.Equal(t, "tool", toolTurn.Role)
	require.Equal(t, "tool_123", toolTurn.ToolCallID)
	require.Equal(t, "Sunny, 72F", toolTurn.Content)
}

func TestTranslateRequest_OrphanToolFiltering(t *testing.T) {
	registry := NewRegistry("https://example.test", "")
	resolver := NewResolver(registry, "")

	body := decodeRequest(t, `{
		"model": "claude-3-5-sonnet",
		"messages": [
			{"role": "assistant", "content": [
				{"type": "tool_use", "id": "tool_1", "name": "a", "input": {}},
				{"type": "tool_use", "id": "tool_2", "name": "b", "input": {}}
			]},
			{"role": "user", "content": [
				{"type": "tool_result", "tool_use_id": "tool_1", "content": "ok"}
			]}
		]
	}`)

	out := TranslateRequest(body, resolver)

	require.Len(t, out.Messages, 2)
	require.Len(t, out.Messages[0].ToolCalls, 1)
	require.Equal(t, "tool_1", out.Messages[0].ToolCalls[0].ID)
}

func TestTranslateRequest_AssistantToolUseOnlyHasNoContentField(t *testing.T) {
	registry := NewRegistry("https://example.test", "")
	resolver := NewResolver(registry, "")

	body := decodeRequest(t, `{
		"model": "claude-3-5-sonnet",
		"messages": [
			{"role": "assistant", "content": [
				{"type": "tool_use", "id": "tool_1", "name": "a", "input": {}}
			]},
			{"role": "user", "content": [
				{"type": "tool_result", "tool_use_id": "tool_1", "content": "ok"}
			]}
		]
	}`)

	out := TranslateRequest(body, resolver)

	require.Nil(t, out.Messages[0].Content)
	require.Len(t, out.Messages[0].ToolCalls, 1)
}

func TestTranslateRequest_NonStringToolResultIsJSONEncoded(t *testing.T) {
	registry := NewRegistry("https://example.test", "")
	resolver := NewResolver(registry, "")

	body := decodeRequest(t, `{
		"model": "claude-3-5-sonnet",
		"messages": [
			{"role": "assistant", "content": [
				{"type": "tool_use", "id": "tool_1", "name": "a", "input": {}}
			]},
			{"role": "user", "content": [
				{"type": "tool_result", "tool_use_id": "tool_1", "content": {"ok": true, "count": 3}}
			]}
		]
	}`)

	out := TranslateRequest(body, resolver)

	toolTurn := out.Messages[1]
	require.Equal(t, "tool", toolTurn.Role)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(toolTurn.Content.(string)), &decoded))
	require.Equal(t, true, decoded["ok"])
}

func TestTranslateRequest_EmptyMessagesSystemTools(t *testing.T) {
	registry := NewRegistry("https://example.test", "")
	resolver := NewResolver(registry, "")

	body := decodeRequest(t, `{"model": "claude-3-5-sonnet", "messages": []}`)

	out := TranslateRequest(body, resolver)

	require.Empty(t, out.Messages)
	require.Empty(t, out.Tools)
}

func TestTranslateRequest_ToolChoice(t *testing.T) {
	registry := NewRegistry("https://example.test", "")
	resolver := NewResolver(registry, "")

	cases := []struct {
		name string
		json string
		want any
	}{
		{"auto", `"auto"`, "auto"},
		{"any", `{"type":"any"}`, "required"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := decodeRequest(t, `{"model":"m","messages":[],"tool_choice":`+c.json+`}`)
			out := TranslateRequest(body, resolver)
			require.Equal(t, c.want, out.ToolChoice)
		})
	}

	t.Run("specific tool", func(t *testing.T) {
		body := decodeRequest(t, `{"model":"m","messages":[],"tool_choice":{"type":"tool","name":"get_weather"}}`)
		out := TranslateRequest(body, resolver)
		want := map[string]any{"type": "function", "function": map[string]any{"name": "get_weather"}}
		require.Equal(t, want, out.ToolChoice)
	})
}
