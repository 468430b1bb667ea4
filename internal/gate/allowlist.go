package gate

// Allowlist is the fixed set of paths exempt from authorization. Matching is
// exact only; nested paths under a public route stay protected.
type Allowlist struct {
	paths map[string]struct{}
}

// DefaultPublicPaths returns the routes that never require authentication:
// probes, metrics, the auth endpoints themselves and API documentation.
func DefaultPublicPaths() []string {
	return []string{
		"/v1/health",
		"/ready",
		"/metrics",
		"/v1/auth/signup",
		"/v1/auth/login",
		"/docs",
		"/openapi.json",
	}
}

// NewAllowlist creates an allowlist from the given paths.
func NewAllowlist(paths []string) *Allowlist {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return &Allowlist{paths: set}
}

// Contains reports whether path is exempt from authorization.
func (a *Allowlist) Contains(path string) bool {
	_, ok := a.paths[path]
	return ok
}
