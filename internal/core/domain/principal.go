package domain

// Principal is the resolved identity of the caller for one request. The set
// of implementations is closed: Anonymous, FrontPrincipal and AdminPrincipal.
// Authorization code switches on the concrete type.
type Principal interface {
	principal()
}

// Anonymous is an unauthenticated caller. TokenPresented records whether a
// bearer token was sent but did not resolve to a live session.
type Anonymous struct {
	TokenPresented bool
}

// FrontPrincipal is an authenticated storefront customer.
type FrontPrincipal struct {
	UserID int64
}

// AdminPrincipal is an authenticated back-office account. Role is the value
// read from the Store during this request.
type AdminPrincipal struct {
	AdminID int64
	Role    AdminRole
}

func (Anonymous) principal()      {}
func (FrontPrincipal) principal() {}
func (AdminPrincipal) principal() {}
