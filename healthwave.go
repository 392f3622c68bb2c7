package healthwave

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"

	"github.com/dmelnikov/healthwave/internal/config"
	"github.com/dmelnikov/healthwave/internal/logging"
	"github.com/dmelnikov/healthwave/internal/metrics"
	"github.com/dmelnikov/healthwave/pkg/adapters/file"
	"github.com/dmelnikov/healthwave/pkg/adapters/memory"
	redisadapter "github.com/dmelnikov/healthwave/pkg/adapters/redis"
	"github.com/dmelnikov/healthwave/pkg/adapters/sheets"
	"github.com/dmelnikov/healthwave/pkg/adapters/vk"
	"github.com/dmelnikov/healthwave/pkg/poll"
	"github.com/dmelnikov/healthwave/pkg/session"
)

// App is the assembled application: the survey bot plus its webhook and
// metrics surfaces, wired from configuration.
type App struct {
	Bot      *poll.Bot
	Logger   *slog.Logger
	callback *vk.Callback
	registry *prometheus.Registry
}

// New wires adapters and the orchestrator from configuration. With
// RedisAddr set, records and per-identity locks are shared through redis;
// otherwise everything lives in process memory.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logW := os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logW = f
	}
	logger := logging.New(logW, cfg.Level())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	set := metrics.New(registry)

	client := vk.NewClient(cfg.Token, vk.WithLogger(logger))

	sink, err := sheets.NewSink(ctx, cfg.CredsFile)
	if err != nil {
		return nil, err
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	var manager *session.Manager
	if cfg.RedisAddr != "" {
		rdb := backend.NewClient(&backend.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		store := redisadapter.NewFromClient(rdb)
		locker := redisadapter.NewLocker(rdb, "healthwave:")
		manager = session.NewManager(store, append(sessionOpts, session.WithLocker(locker))...)
	} else {
		manager = session.NewManager(memory.NewStore(), sessionOpts...)
	}

	bot := poll.NewBot(
		manager,
		client,
		client,
		file.NewRecipientList(),
		poll.NewDispatcher(sink, logger),
		poll.WithLogger(logger),
		poll.WithMetrics(set),
	)

	callback := vk.NewCallback(cfg.Confirmation, bot.HandleEvent,
		vk.WithSecret(cfg.Secret),
		vk.WithCallbackLogger(logger),
	)

	return &App{
		Bot:      bot,
		Logger:   logger,
		callback: callback,
		registry: registry,
	}, nil
}

// Router assembles the HTTP surface: the VK callback webhook and /metrics.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/callback", a.callback.Handler())
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return r
}
