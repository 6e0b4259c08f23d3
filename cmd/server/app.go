package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"daoview/internal/adapter"
	"daoview/internal/cache"
	"daoview/internal/config"
	"daoview/internal/repository/sqlite"
	"daoview/internal/service"
	"daoview/internal/stacks"
)

// app holds everything a command needs to talk to the chain and the DAO list
type app struct {
	cfg   *config.Config
	repo  *sqlite.Repository
	cache cache.Cache
	svc   *service.DaoService
}

// openApp wires client, adapters, cache, repository and facade from cfg
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	probe := cfg.EffectiveProbe()

	clientCfg := stacks.DefaultClientConfig()
	clientCfg.Endpoints = cfg.Endpoints(clientCfg.Endpoints)
	clientCfg.APIKey = cfg.Network.APIKey
	if probe.RequestTimeout > 0 {
		clientCfg.Timeout = probe.RequestTimeout
	}
	if probe.MaxRetries >= 0 {
		clientCfg.MaxRetries = probe.MaxRetries
	}
	if probe.RetryBackoff > 0 {
		clientCfg.RetryBackoff = probe.RetryBackoff
	}
	client := stacks.NewClient(clientCfg)

	opts := []adapter.Option{
		adapter.WithConcurrency(probe.Concurrency),
		adapter.WithTrace(probe.Trace),
	}
	registry := adapter.NewRegistry(adapter.NewGenericAdapter(client, opts...))
	if err := registry.Register(adapter.NewExecutorAdapter(client, opts...)); err != nil {
		return nil, err
	}

	c, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Printf("Database opened: %s", cfg.Database.Path)

	svc := service.NewDaoService(registry, repo,
		service.WithDefaultNetwork(cfg.DefaultNetwork()),
		service.WithCache(c, service.CacheTTL{
			Treasury:  cfg.Cache.Treasury.Duration(),
			Proposals: cfg.Cache.Proposals.Duration(),
			Details:   cfg.Cache.Details.Duration(),
		}),
	)

	if cfg.Seed.Path != "" {
		if err := svc.ReloadSeed(ctx, cfg.Seed.Path); err != nil {
			log.Printf("Warning: Failed to load seed list: %v", err)
		}
	}

	return &app{cfg: cfg, repo: repo, cache: c, svc: svc}, nil
}

// openCache creates the configured cache. An unreachable redis falls back to memory.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	c, err := cache.New(cfg.Cache.Backend, cfg.Cache.RedisURL)
	if err != nil {
		return nil, err
	}

	if r, ok := c.(*cache.Redis); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := r.Ping(pingCtx); err != nil {
			log.Printf("Warning: Redis unreachable (%v), using in-memory cache", err)
			r.Close()
			return cache.NewMemory(), nil
		}
		log.Printf("Using Redis cache")
	}
	return c, nil
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
	if err := a.cache.Close(); err != nil {
		log.Printf("Failed to close cache: %v", err)
	}
}
