package cart

import (
	"github.com/google/uuid"
	"github.com/shoplane/cartsync-backend/pkg/enums"
	pkgerrors "github.com/shoplane/cartsync-backend/pkg/errors"
)

// Session carries the shopper identity for a single request. The mode decides
// which store every operation hits; it is always passed explicitly so the
// service stays free of ambient auth state.
type Session struct {
	Mode        enums.SessionMode
	GuestID     string
	UserID      uuid.UUID
	AccessToken string
}

// Authenticated reports whether the session is backed by the upstream cart.
func (s Session) Authenticated() bool {
	return s.Mode == enums.SessionModeAuthenticated
}

func (s Session) validate() error {
	if !s.Mode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid session mode")
	}
	if s.Authenticated() {
		if s.AccessToken == "" {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
		}
		return nil
	}
	if s.GuestID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "guest id is required")
	}
	return nil
}
