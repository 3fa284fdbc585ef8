package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/discord"
	"github.com/ghostsync/member-sync/internal/domain"
	"github.com/ghostsync/member-sync/pkg/util"
)

// ReconcileService makes guild role grants for a Discord user match a target
// role set. It never diffs against current grants: the full target set is
// re-applied (redundant grants are remote no-ops), and an empty target strips
// the entire configured role universe since no grant history is kept.
type ReconcileService struct {
	discord discord.Client
	guildID string
	table   *domain.TierRoleTable
	logger  *zap.Logger
}

// NewReconcileService builds the service.
func NewReconcileService(discordClient discord.Client, guildID string, table *domain.TierRoleTable, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{discord: discordClient, guildID: guildID, table: table, logger: logger}
}

// Reconcile applies targetRoleIDs to the guild member. Lookup and grant
// failures are surfaced, never retried here; the caller decides.
func (s *ReconcileService) Reconcile(ctx context.Context, discordUserID string, targetRoleIDs []string) error {
	if err := s.discord.ResolveGuild(ctx, s.guildID); err != nil {
		return util.NewRoleSyncFailure(err)
	}
	if err := s.discord.ResolveMember(ctx, s.guildID, discordUserID); err != nil {
		return util.NewRoleSyncFailure(err)
	}

	// Lazy cache warm: only target roles are resolved, not the full guild
	// role listing.
	for _, roleID := range targetRoleIDs {
		if err := s.discord.ResolveRole(ctx, s.guildID, roleID); err != nil {
			return util.NewRoleSyncFailure(err)
		}
	}

	if len(targetRoleIDs) > 0 {
		if err := s.discord.AddMemberRoles(ctx, s.guildID, discordUserID, targetRoleIDs); err != nil {
			return util.NewRoleSyncFailure(err)
		}
		s.logger.Info("roles granted",
			zap.String("discord_user_id", discordUserID),
			zap.Strings("role_ids", targetRoleIDs))
		return nil
	}

	universe := s.table.RoleUniverse()
	if err := s.discord.RemoveMemberRoles(ctx, s.guildID, discordUserID, universe); err != nil {
		return util.NewRoleSyncFailure(err)
	}
	s.logger.Info("roles revoked",
		zap.String("discord_user_id", discordUserID),
		zap.Strings("role_ids", universe))
	return nil
}
