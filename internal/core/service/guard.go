package service

import (
	"github.com/storefront/gateway/internal/core/domain"
)

type requirementKind int

const (
	requirePublic requirementKind = iota
	requireFrontUser
	requireAdmin
	requireAdminRole
)

// Requirement is what a route demands of its caller.
type Requirement struct {
	kind requirementKind
	role domain.AdminRole
}

var (
	Public       = Requirement{kind: requirePublic}
	AnyFrontUser = Requirement{kind: requireFrontUser}
	AnyAdmin     = Requirement{kind: requireAdmin}
)

// AdminWithRole requires an admin whose current role is exactly role.
func AdminWithRole(role domain.AdminRole) Requirement {
	return Requirement{kind: requireAdminRole, role: role}
}

func (r Requirement) String() string {
	switch r.kind {
	case requireFrontUser:
		return "front_user"
	case requireAdmin:
		return "admin"
	case requireAdminRole:
		return "admin:" + string(r.role)
	default:
		return "public"
	}
}

// Authorize returns nil when p satisfies req, otherwise one of
// domain.ErrUnauthorized, domain.ErrInvalidSession or domain.ErrForbidden.
func Authorize(p domain.Principal, req Requirement) error {
	if req.kind == requirePublic {
		return nil
	}

	switch v := p.(type) {
	case domain.FrontPrincipal:
		if req.kind == requireFrontUser {
			return nil
		}
		return domain.ErrInvalidSession
	case domain.AdminPrincipal:
		switch req.kind {
		case requireAdmin:
			return nil
		case requireAdminRole:
			if v.Role == req.role {
				return nil
			}
			return domain.ErrForbidden
		}
		return domain.ErrInvalidSession
	case domain.Anonymous:
		if v.TokenPresented {
			return domain.ErrInvalidSession
		}
		return domain.ErrUnauthorized
	}
	return domain.ErrUnauthorized
}
