// README: Entry point; loads config, wires the toll service and serves HTTP until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tollfee/internal/config"
	httptransport "tollfee/internal/http"
	"tollfee/internal/infra"
	"tollfee/internal/modules/toll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Toll.Location()
	if err != nil {
		logger.Fatal("load toll timezone", zap.String("timezone", cfg.Toll.Timezone), zap.Error(err))
	}

	var cache toll.QuoteCache
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			logger.Fatal("connect redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer redisClient.Close()
		cache = toll.NewStore(redisClient, cfg.Redis.QuoteTTL)
		logger.Info("quote cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.QuoteTTL))
	}

	tollSvc := toll.NewService(cache, logger.Named("toll"), toll.Options{
		Currency:         cfg.Toll.Currency,
		Location:         loc,
		BatchConcurrency: cfg.Toll.BatchConcurrency,
		MaxBatch:         cfg.Toll.MaxBatch,
	})

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Toll: tollSvc,
		Log:  logger.Named("http"),
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server exiting")
}
