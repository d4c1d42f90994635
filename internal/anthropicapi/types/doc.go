// Package types defines the wire shapes of Anthropic's Messages API as seen
// from the server side of this proxy: requests decoded from clients built
// for Claude, and responses/stream events encoded back to them.
//
// These are hand-written rather than decoded into
// github.com/anthropics/anthropic-sdk-go's client-oriented param types for
// the same reasons the upstream adapter's own types package gives for not
// using SDK types server-side (see the teacher's doc.go this package
// mirrors): the SDK's MessageNewParams is a request *builder* tuned for
// outbound calls, uses param.Opt[T] wrappers that complicate plain
// json.Decoder use, and has no field for the OpenRouter-specific
// passthrough extensions (reasoning, reasoning_effort) this proxy forwards
// verbatim. Plain structs with standard pointers and json.RawMessage for
// polymorphic fields decode directly with encoding/json.
//
// Union-shaped wire fields (a message's content as string-or-parts, system
// as string-or-list, tool_choice as string-or-object) are modeled as small
// types with their own UnmarshalJSON rather than left as map[string]any, so
// callers get a closed, exhaustively-switchable shape instead of a
// string-tagged dictionary.
package types
