package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/config"
	httpDelivery "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/delivery/http"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/delivery/kafka/producer"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/engine"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/repository/bolt"
	repo "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/repository/redis"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/service"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/clock"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/entropy"
	pkgKafka "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/kafka"
	pkgLog "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
	pkgRedis "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})

	redisCli, err := pkgRedis.Connect(ctx, pkgRedis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
	}
	defer pkgRedis.Disconnect(redisCli)

	ssRepo := repo.NewRedisSessionRepository(redisCli, l)
	queueProj := repo.NewRedisQueueProjection(redisCli, l)

	journal, err := bolt.Open(cfg.Bolt.Path)
	if err != nil {
		l.Fatalf(ctx, "Failed to open event journal: %v", err)
	}
	defer journal.Close()

	// Kafka producer
	var prod producer.Producer
	if cfg.Kafka.Enabled {
		kafkaSyncProd, err := pkgKafka.NewProducer(pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		prod = producer.NewProducer(kafkaSyncProd, l)
		defer prod.Close()
	}

	// Marketplace engine
	eng := engine.New(engine.Config{
		Organizer:       cfg.Organizer(),
		CommissionFee:   cfg.Market.CommissionFee,
		MarkupCapBps:    cfg.Market.MarkupCapBps,
		ReleaseWindow:   cfg.Market.ReleaseWindow,
		RedemptionBonus: cfg.Market.RedemptionBonus,
		VoteCap:         cfg.Market.VoteCap,
	}, clock.System(), entropy.Weak())

	// Services
	ssSvc := service.NewSessionService(ssRepo, cfg.JWT, l)
	mpSvc := service.NewMarketplaceService(eng, journal, prod, queueProj, clock.System(), l)

	// HTTP server
	handler := httpDelivery.NewHTTPHandler(mpSvc, ssSvc, l)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      httpDelivery.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Infof(ctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-quit:
		case <-gCtx.Done():
			return gCtx.Err()
		}

		l.Info(ctx, "Server shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Errorf(ctx, "Server error: %v", err)
	}

	l.Info(ctx, "Server exited")
}
