package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// refreshRateLimit bounds how often Refresh will actually hit the upstream
// /models endpoint, so a caller retrying in a tight loop (or a future
// scheduled job misconfigured to poll too aggressively) can't hammer
// OpenRouter faster than its documented rate-limit guidance.
const refreshRateLimit = rate.Limit(1) // one refresh per second, burst 1

// ClaudeTiers is the ordered set of Claude shorthand tiers this proxy
// resolves aliases for. Order matters: it is the precedence used when a
// model name happens to contain more than one tier substring.
var ClaudeTiers = [...]string{"haiku", "sonnet", "opus"}

var excludedVariant = regexp.MustCompile(`:(free|beta|extended)`)

// registryModel is the subset of an upstream /models entry the registry
// derives its views from.
type registryModel struct {
	ID                  string   `json:"id"`
	Created             int64    `json:"created"`
	SupportedParameters []string `json:"supported_parameters"`
}

type modelsPayload struct {
	Data []registryModel `json:"data"`
}

// snapshot is an immutable view of the upstream model catalogue. A Registry
// holds an atomic pointer to one; readers never block and never see a
// partially-updated view.
type snapshot struct {
	ids             map[string]struct{}
	supportedParams map[string]map[string]struct{}
	aliases         map[string]string
}

func emptySnapshot() *snapshot {
	return &snapshot{
		ids:             map[string]struct{}{},
		supportedParams: map[string]map[string]struct{}{},
		aliases:         map[string]string{},
	}
}

// Registry is the process-wide cache of upstream model descriptors. The zero
// value is not usable; construct with NewRegistry. Safe for concurrent use.
type Registry struct {
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	cur     atomic.Pointer[snapshot]
}

// NewRegistry constructs a Registry pointed at baseURL (no trailing slash
// expected) with no models loaded yet. Call Refresh to populate it.
func NewRegistry(baseURL, apiKey string) *Registry {
	r := &Registry{baseURL: baseURL, apiKey: apiKey, limiter: rate.NewLimiter(refreshRateLimit, 1)}
	r.cur.Store(emptySnapshot())
	return r
}

// Refresh fetches the upstream model list and atomically publishes a new
// snapshot. Callers typically invoke this once at startup and treat a
// failure there as fatal; a later call (e.g. from an operator endpoint or a
// scheduled job) republishes without disrupting in-flight reads.
func (r *Registry) Refresh(ctx context.Context, transport http.RoundTripper) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit models refresh: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("build models request: %w", err)
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	client := &http.Client{Transport: transport}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read models response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("fetch models: upstream status %d: %s", resp.StatusCode, string(body))
	}

	var payload modelsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode models response: %w", err)
	}

	r.cur.Store(buildSnapshot(payload.Data))
	return nil
}

func buildSnapshot(models []registryModel) *snapshot {
	s := emptySnapshot()

	type candidate struct {
		created int64
		id      string
	}
	tierCandidates := map[string][]candidate{}

	for _, m := range models {
		if m.ID == "" {
			continue
		}
		s.ids[m.ID] = struct{}{}

		if len(m.SupportedParameters) > 0 {
			set := make(map[string]struct{}, len(m.SupportedParameters))
			for _, p := range m.SupportedParameters {
				set[p] = struct{}{}
			}
			s.supportedParams[m.ID] = set
		} else {
			s.supportedParams[m.ID] = map[string]struct{}{}
		}

		if !strings.HasPrefix(m.ID, "anthropic/claude") {
			continue
		}
		if excludedVariant.MatchString(m.ID) {
			continue
		}
		tier := extractClaudeTier(m.ID)
		if tier == "" {
			continue
		}
		tierCandidates[tier] = append(tierCandidates[tier], candidate{created: m.Created, id: m.ID})
	}

	for tier, candidates := range tierCandidates {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.created > best.created || (c.created == best.created && c.id > best.id) {
				best = c
			}
		}
		s.aliases[tier] = best.id
	}

	return s
}

func extractClaudeTier(modelID string) string {
	lower := strings.ToLower(modelID)
	for _, tier := range ClaudeTiers {
		if strings.Contains(lower, tier) {
			return tier
		}
	}
	return ""
}

// HasModel reports whether id is a known upstream model.
func (r *Registry) HasModel(id string) bool {
	_, ok := r.cur.Load().ids[id]
	return ok
}

// SupportedParams returns the set of parameter names the upstream advertises
// for id, and whether id is known at all. A known model with no advertised
// parameters returns (empty-but-non-nil map, true); an unknown model returns
// (nil, false).
func (r *Registry) SupportedParams(id string) (map[string]struct{}, bool) {
	params, ok := r.cur.Load().supportedParams[id]
	return params, ok
}

// Alias returns the upstream model ID aliased to tier (one of ClaudeTiers),
// and whether an alias is currently known for it.
func (r *Registry) Alias(tier string) (string, bool) {
	id, ok := r.cur.Load().aliases[tier]
	return id, ok
}
