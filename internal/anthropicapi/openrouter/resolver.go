package openrouter

import "strings"

// Resolver maps an Anthropic model name to the upstream OpenRouter model ID
// to actually call.
type Resolver struct {
	registry *Registry
	override string
}

// NewResolver builds a Resolver over registry. override, when non-empty,
// forces every resolution to that value regardless of the requested model.
func NewResolver(registry *Registry, override string) *Resolver {
	return &Resolver{registry: registry, override: override}
}

// Resolve returns the upstream model ID for the Anthropic model name m.
//
// Precedence: a configured override wins outright; an already-qualified ID
// (containing a "/") passes through; otherwise the first Claude tier
// substring found in m that also has a known alias is substituted; failing
// that, m passes through unchanged.
func (r *Resolver) Resolve(m string) string {
	if r.override != "" {
		return r.override
	}
	if strings.Contains(m, "/") {
		return m
	}

	lower := strings.ToLower(m)
	for _, tier := range ClaudeTiers {
		if !strings.Contains(lower, tier) {
			continue
		}
		if id, ok := r.registry.Alias(tier); ok {
			return id
		}
	}

	return m
}
