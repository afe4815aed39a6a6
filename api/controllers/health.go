package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/IgureAndrew/vistapro-backend/api/responses"
	"github.com/IgureAndrew/vistapro-backend/pkg/config"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
	"github.com/IgureAndrew/vistapro-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vistapro-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores so the platform only routes traffic
// once they answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, database pinger, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vistapro-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		deps := map[string]pinger{"database": database}
		if cache != nil {
			deps["redis"] = cache
		}

		checks := map[string]string{}
		ready := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(ctx, name+" readiness check failed", err)
				}
				checks[name] = "down"
				ready = false
				continue
			}
			checks[name] = "up"
		}

		if !ready {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
