package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/events"
	"github.com/ghostsync/member-sync/internal/service"
)

// StartSyncWorker subscribes the sync orchestrator to membership-change
// events and starts draining the dispatcher queue in the background. All
// outcomes of this path are fire-and-forget: errors end up in the log only.
func StartSyncWorker(ctx context.Context, dispatcher events.Dispatcher, syncService *service.SyncService, logger *zap.Logger) {
	if dispatcher == nil || syncService == nil {
		return
	}

	dispatcher.Subscribe(events.EventMemberChanged, func(ctx context.Context, event events.Event) error {
		return syncService.HandleMemberChanged(ctx, event.MemberID)
	})

	go func() {
		logger.Info("sync worker started")
		dispatcher.Run(ctx)
		logger.Info("sync worker stopped")
	}()
}
