package gate

import (
	"net/url"
	"strings"
)

// Action is the kind of decision the gate produces.
type Action int

const (
	// ActionAllow lets the request through to its handler.
	ActionAllow Action = iota
	// ActionRedirect sends the caller to Decision.Target instead.
	ActionRedirect
)

// Decision is the gate's verdict for one request. The gate never errors:
// every path maps to exactly one Decision.
type Decision struct {
	Action Action
	Target string
}

// Policy is the routing policy data: which prefix bypasses the gate, what
// counts as a static asset, which paths are public, and where the auth
// entry and landing pages live. It is plain data so deployments can
// override any of it without touching classification logic.
type Policy struct {
	// APIPrefix marks routes that skip the gate entirely; API handlers
	// perform their own authorization against the permission resolver.
	APIPrefix string

	AssetPrefixes   []string
	AssetPaths      []string
	AssetExtensions []string

	// PublicPaths are reachable without a session.
	PublicPaths []string

	LandingPath   string
	SignInPath    string
	DashboardPath string

	// NextParam carries the originally requested path on the
	// anonymous-redirect so sign-in can send the caller back.
	NextParam string
}

// DefaultPolicy returns the stock admin-backend routing policy.
func DefaultPolicy() Policy {
	return Policy{
		APIPrefix:       "/api/",
		AssetPrefixes:   []string{"/static/", "/assets/", "/_build/"},
		AssetPaths:      []string{"/favicon.ico"},
		AssetExtensions: []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico"},
		PublicPaths:     []string{"/", "/signin", "/signup", "/api/auth/login"},
		LandingPath:     "/",
		SignInPath:      "/signin",
		DashboardPath:   "/dashboard",
		NextParam:       "next",
	}
}

// Decide classifies a request path given session presence. Rules apply in
// order, first match wins:
//
//  1. API-prefixed paths bypass the gate.
//  2. Static assets are always allowed.
//  3. An authenticated caller on the landing or sign-in page is sent to
//     the dashboard; any query string is dropped.
//  4. Public paths are allowed.
//  5. An anonymous caller is sent to the landing page with the requested
//     path preserved in the next parameter.
//  6. Everything else is allowed.
//
// Rule order is the precedence order: an authenticated caller on a public
// entry page hits rule 3, not rule 4.
func (p Policy) Decide(path string, authenticated bool) Decision {
	if p.APIPrefix != "" && strings.HasPrefix(path, p.APIPrefix) {
		return Decision{Action: ActionAllow}
	}

	if p.isAsset(path) {
		return Decision{Action: ActionAllow}
	}

	if authenticated && (path == p.LandingPath || path == p.SignInPath) {
		return Decision{Action: ActionRedirect, Target: p.DashboardPath}
	}

	for _, public := range p.PublicPaths {
		if path == public {
			return Decision{Action: ActionAllow}
		}
	}

	if !authenticated {
		target := p.LandingPath + "?" + p.NextParam + "=" + url.QueryEscape(path)
		return Decision{Action: ActionRedirect, Target: target}
	}

	return Decision{Action: ActionAllow}
}

// Unconditional reports whether the path's decision is allow regardless of
// session presence: API-prefixed paths bypass the gate and assets are
// always served. The middleware uses this to skip session resolution
// entirely, so a session-store outage cannot fail these requests.
func (p Policy) Unconditional(path string) bool {
	if p.APIPrefix != "" && strings.HasPrefix(path, p.APIPrefix) {
		return true
	}
	return p.isAsset(path)
}

func (p Policy) isAsset(path string) bool {
	for _, prefix := range p.AssetPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, exact := range p.AssetPaths {
		if path == exact {
			return true
		}
	}
	for _, ext := range p.AssetExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
