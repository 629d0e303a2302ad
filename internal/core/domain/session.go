package domain

import "time"

// Realm names the principal domain a session belongs to.
type Realm string

const (
	RealmFrontUser Realm = "front_user"
	RealmAdminUser Realm = "admin_user"
)

const (
	FrontSessionTTL = 7 * 24 * time.Hour
	AdminSessionTTL = 24 * time.Hour
)

// TTL returns the session lifetime for the realm. Admin sessions are
// deliberately shorter lived.
func (r Realm) TTL() time.Duration {
	if r == RealmAdminUser {
		return AdminSessionTTL
	}
	return FrontSessionTTL
}

// Session is the bearer credential persisted in the Store. Exactly one of
// UserID and AdminID is set and it always agrees with Realm; use
// NewFrontSession or NewAdminSession to build one.
type Session struct {
	ID        string    `json:"-"`
	UserID    *int64    `json:"user_id,omitempty"`
	AdminID   *int64    `json:"admin_id,omitempty"`
	Realm     Realm     `json:"realm"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewFrontSession builds a storefront session for userID.
func NewFrontSession(token string, userID int64, now time.Time) *Session {
	return &Session{
		ID:        token,
		UserID:    &userID,
		Realm:     RealmFrontUser,
		CreatedAt: now,
		ExpiresAt: now.Add(RealmFrontUser.TTL()),
	}
}

// NewAdminSession builds a back-office session for adminID.
func NewAdminSession(token string, adminID int64, now time.Time) *Session {
	return &Session{
		ID:        token,
		AdminID:   &adminID,
		Realm:     RealmAdminUser,
		CreatedAt: now,
		ExpiresAt: now.Add(RealmAdminUser.TTL()),
	}
}

// Consistent reports whether the realm matches the populated principal column.
func (s *Session) Consistent() bool {
	switch s.Realm {
	case RealmFrontUser:
		return s.UserID != nil && s.AdminID == nil
	case RealmAdminUser:
		return s.AdminID != nil && s.UserID == nil
	}
	return false
}

// ExpiredAt reports whether the session is no longer valid at now. A session
// whose expiry equals now is expired.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
