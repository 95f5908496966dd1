package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/personal-library/book"
	"github.com/marcelsud/personal-library/config"
	"github.com/marcelsud/personal-library/internal/http/chi"
	"github.com/marcelsud/personal-library/internal/http/ratelimit"
	"github.com/marcelsud/personal-library/internal/storage"
	"github.com/marcelsud/personal-library/metrics"
)

const TIMEOUT = 30 * time.Second

/* “a porta de entrada e saída da minha aplicação”
* É no main.go onde é feita toda a “amarração” dos demais pacotes:
* configuração, armazenamento, serviço, métricas e HTTP.
 */

/*
 * As importações devem ser feitas apenas em uma direção: para baixo. O aplicativo (api, cli) importa camadas de negócios,
 * que importam a camada de armazenamento
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	logger := chi.NewLogger(cfg.LogJSON)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("opening store")
		return
	}
	defer repo.Close(context.Background())
	s := book.NewService(repo)

	opts := []chi.Option{chi.WithLogger(logger)}
	if cfg.MetricsEnabled {
		exporter, err := metrics.NewOTelExporter(metrics.NewServiceCollector(s))
		if err != nil {
			logger.Error().Err(err).Msg("creating metrics exporter")
			return
		}
		defer exporter.Shutdown(context.Background())
		opts = append(opts, chi.WithRecorder(exporter), chi.WithMetricsHandler(exporter.ServeHTTP()))
	}
	if cfg.RateLimitRPS > 0 {
		store := ratelimit.NewStore(cfg.RateLimitRPS, cfg.RateLimitBurst)
		opts = append(opts, chi.WithRateLimit(ratelimit.Middleware(store, ratelimit.ClientIP(cfg.TrustProxy))))
	}

	r := chi.Handlers(ctx, s, opts...)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("serving")
		return
	}
	err = <-errShutdown
	if err != nil {
		logger.Error().Err(err).Msg("shutting down")
		return
	}
	logger.Info().Msg("server stopped")
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server: %w", err)
	}
}
