package client

import "strings"

// DecisionKind enumerates the outcomes of a route guard.
type DecisionKind int

const (
	// Loading: session state unresolved; callers should wait, not redirect.
	Loading DecisionKind = iota
	// Allow: access granted.
	Allow
	// RedirectToLogin: anonymous; Decision.From holds the attempted route.
	RedirectToLogin
	// Denied: authenticated but lacking a required role.
	Denied
)

// Decision is the result of a guard check. Guards are pure readers: they
// never mutate the session.
type Decision struct {
	Kind     DecisionKind
	From     string   // attempted route, set on RedirectToLogin
	Required []string // roles demanded, set on Denied
	Actual   string   // role held, set on Denied
}

// RequireAuth admits any authenticated session.
func RequireAuth(s *Session, from string) Decision {
	if s.IsLoading() {
		return Decision{Kind: Loading}
	}
	if !s.IsAuthenticated() {
		return Decision{Kind: RedirectToLogin, From: from}
	}
	return Decision{Kind: Allow}
}

// RequireRole admits an authenticated session holding any of the given roles.
// Comparison is case-insensitive over the canonical role names.
func RequireRole(s *Session, from string, roles ...string) Decision {
	if d := RequireAuth(s, from); d.Kind != Allow {
		return d
	}
	actual := normalizeRole(s.Principal().Role)
	for _, r := range roles {
		if normalizeRole(r) == actual {
			return Decision{Kind: Allow}
		}
	}
	return Decision{Kind: Denied, Required: roles, Actual: s.Principal().Role}
}

// normalizeRole folds casing and spacing so "Sub Admin" and "sub_admin"
// compare equal.
func normalizeRole(s string) string {
	r := strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(r, " ", "_")
}
