package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"property-feed/internal/api"
	"property-feed/internal/api/handler"
	"property-feed/internal/cache"
	"property-feed/internal/config"
	"property-feed/internal/model"
	"property-feed/internal/pipeline"
	"property-feed/internal/pubsub"
	"property-feed/internal/scheduler"
	"property-feed/internal/store"
	"property-feed/internal/ws"
	"property-feed/pkg/router"
	"property-feed/pkg/utils"
)

// @title Property Feed API
// @version 1.0
// @description Real-time property data distribution pipeline
// @BasePath /
func main() {
	log := utils.NewLogger()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.SQLitePath)
	if err != nil {
		log.Error("failed to open store at %s: %v", cfg.SQLitePath, err)
		os.Exit(1)
	}
	defer st.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: log}
	if err := retry.Do("redis ping", func() error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		log.Error("redis unreachable at %s: %v", cfg.RedisAddr, err)
		os.Exit(1)
	}

	feedCache := cache.New(rdb, st)
	publisher := pubsub.NewPublisher(rdb)
	runner := pipeline.NewRunner(
		pipeline.NewFetcher(cfg.FetchTimeout),
		pipeline.NewValidator(),
		pipeline.NewTransformer(),
		st,
		feedCache,
		publisher,
		cfg.CacheTTL,
		log,
	)

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	relay := pubsub.NewRelay(rdb, hub, log)
	if err := relay.Run(ctx); err != nil {
		log.Error("failed to establish broadcast relay: %v", err)
		os.Exit(1)
	}

	sched := scheduler.New(runner, log)
	sched.Register(model.CategoryProperty, cfg.PropertySourceURL, cfg.PropertyInterval)
	sched.Register(model.CategoryMarket, cfg.MarketSourceURL, cfg.MarketInterval)
	sched.Register(model.CategoryInfrastructure, cfg.InfrastructureSourceURL, cfg.InfrastructureInterval)
	sched.Start(ctx)

	// Drain job errors for observability; no error here is fatal.
	go func() {
		for err := range sched.Errors() {
			log.Error("pipeline: %v", err)
		}
	}()

	r := router.New()
	api.RegisterRoutes(r, handler.NewFeedHandler(feedCache, st, sched, hub, log))

	if err := r.Start(cfg.ListenAddr); err != nil {
		log.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
