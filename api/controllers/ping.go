package controllers

import (
	"net/http"

	"github.com/shoplane/cartsync-backend/api/middleware"
	"github.com/shoplane/cartsync-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "public", "status": "ok"}
		if sess, ok := middleware.SessionFromContext(r.Context()); ok {
			payload["session_mode"] = string(sess.Mode)
		}
		responses.WriteSuccess(w, payload)
	}
}
