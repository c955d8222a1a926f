package gateway

import (
	"net/http"
	"strings"
)

// OriginPolicy decides which browser origins may open a socket. Requests
// without an Origin header come from non-browser clients and are allowed.
type OriginPolicy struct {
	allowAll bool
	allowed  map[string]struct{}
}

func NewOriginPolicy(origins []string) *OriginPolicy {
	p := &OriginPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = normalizeOrigin(o)
		if o == "" {
			continue
		}
		if o == "*" {
			p.allowAll = true
			continue
		}
		p.allowed[o] = struct{}{}
	}
	return p
}

func (p *OriginPolicy) Allows(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" || p.allowAll {
		return true
	}
	_, ok := p.allowed[origin]
	return ok
}

func (p *OriginPolicy) CheckRequest(r *http.Request) bool {
	return p.Allows(r.Header.Get("Origin"))
}

func normalizeOrigin(origin string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
}
