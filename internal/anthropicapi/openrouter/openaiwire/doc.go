// Package openaiwire defines the wire shapes this proxy speaks to OpenRouter:
// the OpenAI-compatible chat-completions request/response/chunk/model-list
// dialect, including the OpenRouter-specific reasoning extension fields that
// are not part of the published OpenAI schema.
//
// As with internal/anthropicapi/types, these are hand-written plain structs
// rather than a generated or vendored OpenAI client's types, so the
// OpenRouter extensions (reasoning, reasoning_effort) sit
// alongside the standard fields without fighting a client library's own
// request-builder shape.
package openaiwire
