package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shoplane/cartsync-backend/api/responses"
	"github.com/shoplane/cartsync-backend/internal/cart"
	pkgAuth "github.com/shoplane/cartsync-backend/pkg/auth"
	"github.com/shoplane/cartsync-backend/pkg/config"
	"github.com/shoplane/cartsync-backend/pkg/enums"
	pkgerrors "github.com/shoplane/cartsync-backend/pkg/errors"
	"github.com/shoplane/cartsync-backend/pkg/logger"
)

const guestIDHeader = "X-Guest-Id"

// Session resolves the shopper session for every cart request. A valid bearer
// token yields an authenticated session whose token is forwarded upstream;
// otherwise the request runs as a guest keyed by the X-Guest-Id header, which
// is minted and echoed back when the client has none yet.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := cart.Session{
				Mode:    enums.SessionModeGuest,
				GuestID: strings.TrimSpace(r.Header.Get(guestIDHeader)),
			}

			if token := bearerToken(r); token != "" {
				claims, err := pkgAuth.ParseAccessToken(cfg, token)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}
				sess.Mode = enums.SessionModeAuthenticated
				sess.UserID = claims.UserID
				sess.AccessToken = token
			} else if sess.GuestID == "" {
				sess.GuestID = uuid.NewString()
			}

			if sess.GuestID != "" {
				w.Header().Set(guestIDHeader, sess.GuestID)
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionMode(ctx, string(sess.Mode))
				if sess.Authenticated() {
					ctx = logg.WithUserID(ctx, sess.UserID.String())
				} else {
					ctx = logg.WithGuestID(ctx, sess.GuestID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
