package middleware

import (
	"context"

	"github.com/shoplane/cartsync-backend/internal/cart"
)

type contextKey string

const ctxSession contextKey = "cart_session"

// SessionFromContext returns the resolved shopper session for the request.
func SessionFromContext(ctx context.Context) (cart.Session, bool) {
	if ctx == nil {
		return cart.Session{}, false
	}
	if sess, ok := ctx.Value(ctxSession).(cart.Session); ok {
		return sess, true
	}
	return cart.Session{}, false
}

// WithSession injects the shopper session into the context.
func WithSession(ctx context.Context, sess cart.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}
