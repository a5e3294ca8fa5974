// @title         Bear API
// @version       0.1.0
// @description   Admin identity and tenant scoped company reads
// @BasePath      /api/v1
// @securityDefinitions.apikey BearerAuth
// @in            header
// @name          Authorization

// Command bear-api serves the admin console, the admin api and the public tenant site
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bear/internal/core/token"
	"bear/internal/modkit/repokit"
	"bear/internal/platform/config"
	"bear/internal/platform/logger"
	"bear/internal/platform/metrics"
	phttp "bear/internal/platform/net/http"
	"bear/internal/platform/store"

	"bear/internal/services/web"
)

const service = "bear-api"

func main() {
	root := config.New()
	apiCfg := root.Prefix("BEAR_API_")

	// bring up logging early
	logOpts := logger.FromEnv()
	if logOpts.Service == "" {
		logOpts.Service = service
	}
	logger.Init(logOpts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConfig(root, service), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	codec, err := token.New(token.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("token codec")
	}

	// http server (reads BEAR_API_PORT / BEAR_API_READ_HEADER_TIMEOUT)
	srv := phttp.NewServer(apiCfg)

	web.Mount(ctx, srv.Router(), web.Options{
		Config:  root,
		PG:      st.PG,
		Tokens:  codec,
		Metrics: metrics.NewAuth(true),
		Service: service,
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
