package origin

import "strings"

// Allowlist is the static set of front-end origins the gateway will
// accept login requests from and redirect back to. It is immutable
// after construction.
type Allowlist struct {
	origins  map[string]struct{}
	fallback string
}

// NewAllowlist builds an allowlist from the configured origins. The
// fallback origin is where failed callbacks are redirected; if empty it
// defaults to the first allowlisted origin.
func NewAllowlist(origins []string, fallback string) *Allowlist {
	set := make(map[string]struct{}, len(origins))
	first := ""
	for _, o := range origins {
		normalized := Normalize(o)
		if normalized == "" {
			continue
		}
		if first == "" {
			first = normalized
		}
		set[normalized] = struct{}{}
	}

	fb := Normalize(fallback)
	if fb == "" {
		fb = first
	}

	return &Allowlist{origins: set, fallback: fb}
}

// IsTrusted reports whether the origin is allowlisted.
func (a *Allowlist) IsTrusted(origin string) bool {
	_, ok := a.origins[Normalize(origin)]
	return ok
}

// Fallback returns the origin used for failure redirects.
func (a *Allowlist) Fallback() string {
	return a.fallback
}

// Normalize lowercases an origin and strips trailing slashes so that
// configuration and query values compare consistently.
func Normalize(origin string) string {
	trimmed := strings.TrimSpace(origin)
	trimmed = strings.TrimRight(trimmed, "/")
	return strings.ToLower(trimmed)
}
