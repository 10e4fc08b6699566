package auth

import (
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Principal represents the authenticated caller as asserted by a verified
// token: identity plus the permission set materialized at login. All
// authorization decisions run against the permission set; the role name is
// carried for display only and is never compared in a decision path.
type Principal struct {
	UserID      int64
	Role        string
	Permissions []string
	IsActive    bool
}

// Has reports whether the caller holds the named permission. An inactive
// caller holds none.
func (p *Principal) Has(permission string) bool {
	if p == nil || !p.IsActive {
		return false
	}
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

// HasAny reports whether the caller holds at least one of the permissions.
func (p *Principal) HasAny(permissions ...string) bool {
	for _, perm := range permissions {
		if p.Has(perm) {
			return true
		}
	}
	return false
}

// HasAll reports whether the caller holds every one of the permissions.
func (p *Principal) HasAll(permissions ...string) bool {
	if p == nil || !p.IsActive {
		return false
	}
	for _, perm := range permissions {
		if !p.Has(perm) {
			return false
		}
	}
	return true
}

// Authorize allows iff the caller's permission set intersects required;
// otherwise it denies with Forbidden. Pure decision, no side effects.
func Authorize(p *Principal, required ...string) error {
	if p == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if len(required) == 0 {
		return nil
	}
	if !p.HasAny(required...) {
		return apperrors.NewForbidden("insufficient permissions")
	}
	return nil
}

// TicketScope narrows ticket-read data visibility.
type TicketScope int

const (
	// ScopeAll grants visibility over every ticket.
	ScopeAll TicketScope = iota
	// ScopeOwn restricts queries to tickets where the caller is the client.
	ScopeOwn
)

// ResolveTicketScope maps the caller's permission set to a read scope.
// Holding neither read permission is a hard deny before any query runs.
func ResolveTicketScope(p *Principal) (TicketScope, error) {
	switch {
	case p.Has(domain.PermTicketsReadAll):
		return ScopeAll, nil
	case p.Has(domain.PermTicketsReadOwn):
		return ScopeOwn, nil
	default:
		return 0, apperrors.NewForbidden("no ticket read permission")
	}
}

// CanViewTicket implements the single-ticket read rule: full-scope callers
// see any ticket, own-scope callers only their own.
func CanViewTicket(p *Principal, clientID int64) bool {
	scope, err := ResolveTicketScope(p)
	if err != nil {
		return false
	}
	return scope == ScopeAll || clientID == p.UserID
}
