package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ghostsync/member-sync/internal/api/http"
	"github.com/ghostsync/member-sync/internal/api/http/handlers"
	"github.com/ghostsync/member-sync/internal/cache"
	"github.com/ghostsync/member-sync/internal/config"
	"github.com/ghostsync/member-sync/internal/discord"
	"github.com/ghostsync/member-sync/internal/domain"
	"github.com/ghostsync/member-sync/internal/events"
	"github.com/ghostsync/member-sync/internal/ghost"
	"github.com/ghostsync/member-sync/internal/observability"
	"github.com/ghostsync/member-sync/internal/service"
	"github.com/ghostsync/member-sync/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	table, err := domain.NewTierRoleTable(cfg.Sync.TierIDs, cfg.Sync.RoleIDs)
	if err != nil {
		logger.Fatal("invalid tier/role configuration", zap.Error(err))
	}

	cacheClient := cache.New(cfg.Cache, logger)
	defer cacheClient.Close() //nolint:errcheck

	ghostClient := ghost.NewHTTPClient(cfg.Ghost, logger)
	discordClient := discord.NewRESTClient(cfg.Discord, cfg.App.RedirectURL(), cacheClient, cfg.Cache.TTL(), logger)

	metrics := observability.NewMetrics()

	linker := service.NewLinkService(ghostClient, discordClient, logger)
	reconciler := service.NewReconcileService(discordClient, cfg.Discord.GuildID, table, logger)
	syncService := service.NewSyncService(service.SyncDependencies{
		Linker:     linker,
		Reconciler: reconciler,
		Ghost:      ghostClient,
		Table:      table,
		Metrics:    metrics,
	}, logger)

	dispatcher := events.NewAsyncDispatcher(cfg.Sync.QueueSize, logger)
	worker.StartSyncWorker(ctx, dispatcher, syncService, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cacheClient, ghostClient, discordClient)
	linkHandler := handlers.NewLinkHandler(syncService, logger)
	webhookHandler := handlers.NewWebhookHandler(dispatcher, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Link:    linkHandler,
		Webhook: webhookHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
