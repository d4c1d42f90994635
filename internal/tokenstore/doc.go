// Package tokenstore provides pluggable storage for the upstream OpenRouter
// API key: the OS keyring, a plain file, or a read-only view of an
// environment variable.
//
// Unlike an OAuth refresh token, this credential is a single static bearer
// key with no expiry or rotation protocol, so storage here is a plain
// read/write string rather than the token-refresh machinery a provider-side
// OAuth integration would need.
package tokenstore
