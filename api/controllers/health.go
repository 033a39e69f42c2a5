package controllers

import (
	"net/http"

	"github.com/shoplane/cartsync-backend/api/responses"
	"github.com/shoplane/cartsync-backend/pkg/config"
	"github.com/shoplane/cartsync-backend/pkg/db"
	pkgerrors "github.com/shoplane/cartsync-backend/pkg/errors"
	"github.com/shoplane/cartsync-backend/pkg/logger"
	"github.com/shoplane/cartsync-backend/pkg/redis"
)

const envHeader = "X-Cartsync-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the backing stores answer. The db
// pinger is nil when guest carts live in redis alone.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP redis.Pinger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
