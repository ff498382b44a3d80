// Package policy enforces the outbound request security policy. Every
// network call is checked against a transport rule (https only) and, in
// strict mode, a host allow-list before the request is issued.
package policy

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrSchemeNotAllowed is returned for any non-https target.
	ErrSchemeNotAllowed = errors.New("scheme not allowed")

	// ErrHostNotAllowed is returned in strict mode when the target host is
	// not on the allow-list.
	ErrHostNotAllowed = errors.New("host not allowed")
)

// Guard decides whether an outbound request may be issued. It is a pure
// decision function: callers abort the request on denial. The allow-list is
// fixed at construction and never mutated.
type Guard struct {
	strict  bool
	allowed map[string]struct{}
}

// NewGuard creates a guard. With strict enabled (the default deployment
// mode), only hosts in allowedHosts pass; otherwise only the scheme rule
// applies.
func NewGuard(strict bool, allowedHosts []string) *Guard {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			allowed[h] = struct{}{}
		}
	}
	return &Guard{strict: strict, allowed: allowed}
}

// Strict reports whether host allow-listing is enforced.
func (g *Guard) Strict() bool {
	return g.strict
}

// Check validates a target URL against the policy. A nil error means the
// request may proceed.
func (g *Guard) Check(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	if !strings.EqualFold(u.Scheme, "https") {
		return fmt.Errorf("%w: %q", ErrSchemeNotAllowed, u.Scheme)
	}

	if !g.strict {
		return nil
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := g.allowed[host]; !ok {
		return fmt.Errorf("%w: %q", ErrHostNotAllowed, host)
	}

	return nil
}
