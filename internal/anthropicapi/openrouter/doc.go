// Package openrouter implements the translation core: request translation
// from Anthropic's Messages dialect to an OpenAI-compatible chat-completions
// body, response translation in both non-streaming and streaming form, and
// the model registry/resolver that map Claude model aliases onto concrete
// OpenRouter IDs.
//
// Everything here is grounded on how the upstream Messages request/response
// pair is shaped on the wire, not on any particular HTTP framework; the
// package has no dependency on net/http beyond the client it uses to reach
// OpenRouter.
package openrouter
