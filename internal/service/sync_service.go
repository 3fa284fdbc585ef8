package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/domain"
	"github.com/ghostsync/member-sync/internal/ghost"
	"github.com/ghostsync/member-sync/internal/observability"
	"github.com/ghostsync/member-sync/pkg/util"
)

// SyncService sequences the linker, mapper and reconciler for the two entry
// flows: linking completion and membership-change notifications.
type SyncService struct {
	linker     *LinkService
	reconciler *ReconcileService
	ghost      ghost.Client
	table      *domain.TierRoleTable
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// SyncDependencies bundles collaborators for the orchestrator.
type SyncDependencies struct {
	Linker     *LinkService
	Reconciler *ReconcileService
	Ghost      ghost.Client
	Table      *domain.TierRoleTable
	Metrics    *observability.Metrics
}

// NewSyncService builds the orchestrator.
func NewSyncService(deps SyncDependencies, logger *zap.Logger) *SyncService {
	return &SyncService{
		linker:     deps.Linker,
		reconciler: deps.Reconciler,
		ghost:      deps.Ghost,
		table:      deps.Table,
		logger:     logger,
		metrics:    deps.Metrics,
	}
}

// CompleteLink runs the synchronous linking flow. Linking and role sync are
// independently-failable: when linking succeeded but the grant failed, the
// binding stays persisted and the error still surfaces to the caller.
func (s *SyncService) CompleteLink(ctx context.Context, code, memberUUID string) error {
	binding, err := s.linker.CompleteLink(ctx, code, memberUUID)
	if err != nil {
		s.metrics.RecordSync("link", util.ToDomainError(err).Code)
		return err
	}

	target := s.table.MapTiersToRoles(binding.Member.ActiveTierIDs())
	if err := s.reconciler.Reconcile(ctx, binding.DiscordUserID, target); err != nil {
		s.logger.Error("role sync failed after successful link",
			zap.String("member_id", binding.Member.ID),
			zap.String("discord_user_id", binding.DiscordUserID),
			zap.Error(err))
		s.metrics.RecordSync("link", util.ToDomainError(err).Code)
		return err
	}

	s.metrics.RecordSync("link", "ok")
	return nil
}

// HandleMemberChanged runs the asynchronous notification flow. The webhook
// payload is untrusted beyond the member id, so current state is always
// re-read. A member without a binding label is a valid steady state, not an
// error. Failures are terminal for the event; the caller only logs them.
func (s *SyncService) HandleMemberChanged(ctx context.Context, memberID string) error {
	member, err := s.ghost.ReadMember(ctx, memberID)
	if err != nil {
		s.metrics.RecordSync("member_changed", "READ_FAILED")
		return util.NewInternalError(err)
	}

	discordUserID, linked := member.DiscordID()
	if !linked {
		s.logger.Info("member has no discord binding, skipping",
			zap.String("member_id", memberID))
		s.metrics.RecordSync("member_changed", "skipped")
		return nil
	}

	target := s.table.MapTiersToRoles(member.ActiveTierIDs())
	if err := s.reconciler.Reconcile(ctx, discordUserID, target); err != nil {
		s.metrics.RecordSync("member_changed", util.ToDomainError(err).Code)
		return err
	}

	s.logger.Info("member roles synchronized",
		zap.String("member_id", memberID),
		zap.String("discord_user_id", discordUserID),
		zap.Int("target_roles", len(target)))
	s.metrics.RecordSync("member_changed", "ok")
	return nil
}
