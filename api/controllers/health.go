package controllers

import (
	"net/http"

	"github.com/mercatohq/pricing-service/api/responses"
	"github.com/mercatohq/pricing-service/pkg/config"
	"github.com/mercatohq/pricing-service/pkg/db"
	pkgerrors "github.com/mercatohq/pricing-service/pkg/errors"
	"github.com/mercatohq/pricing-service/pkg/logger"
	"github.com/mercatohq/pricing-service/pkg/redis"
)

const envHeader = "X-Pricing-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers a ping.
// The Redis pinger may be nil when caching is disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not wired"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping failed"))
			return
		}
		checks["database"] = "ok"

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping failed"))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
