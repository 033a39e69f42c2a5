package enums

// SessionMode distinguishes where the shopper's cart lives.
type SessionMode string

const (
	// SessionModeGuest means the cart is held by this service, keyed by a
	// client-provided guest id.
	SessionModeGuest SessionMode = "guest"
	// SessionModeAuthenticated means the upstream commerce backend owns the
	// cart and every mutation is delegated to it.
	SessionModeAuthenticated SessionMode = "authenticated"
)

func (m SessionMode) IsValid() bool {
	switch m {
	case SessionModeGuest, SessionModeAuthenticated:
		return true
	}
	return false
}
