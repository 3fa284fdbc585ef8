package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/discord"
	"github.com/ghostsync/member-sync/internal/domain"
	"github.com/ghostsync/member-sync/internal/ghost"
	"github.com/ghostsync/member-sync/pkg/util"
)

// Binding is the result of a completed identity link.
type Binding struct {
	DiscordUserID string
	Member        *domain.Member
}

// LinkService binds a membership record to a Discord identity via the
// authorization-code handshake and persists the binding as a member label.
type LinkService struct {
	ghost   ghost.Client
	discord discord.Client
	logger  *zap.Logger
}

// NewLinkService builds the service.
func NewLinkService(ghostClient ghost.Client, discordClient discord.Client, logger *zap.Logger) *LinkService {
	return &LinkService{ghost: ghostClient, discord: discordClient, logger: logger}
}

// CompleteLink exchanges the authorization code, resolves the Discord user
// behind it, finds the membership record matching memberUUID and rewrites the
// record's labels so exactly one binding label remains. Each step's failure
// short-circuits; the label set is only mutated after every lookup succeeded.
func (s *LinkService) CompleteLink(ctx context.Context, code, memberUUID string) (*Binding, error) {
	accessToken, err := s.discord.ExchangeCode(ctx, code)
	if err != nil {
		return nil, util.NewUpstreamAuthFailure("authorization code exchange rejected", err)
	}

	discordUserID, err := s.discord.FetchSelf(ctx, accessToken)
	if err != nil {
		return nil, util.NewUpstreamAuthFailure("identity fetch rejected", err)
	}

	members, err := s.ghost.BrowseMembersByUUID(ctx, memberUUID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if len(members) == 0 {
		return nil, util.NewMemberNotFound(memberUUID)
	}
	member := members[0]

	// Full overwrite of the label set. There is no conditional-write
	// primitive on the membership platform, so a concurrent label edit in
	// this window can be lost.
	labels := domain.WithBinding(member.Labels, discordUserID)
	updated, err := s.ghost.EditMemberLabels(ctx, member.ID, labels)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	s.logger.Info("member linked",
		zap.String("member_id", member.ID),
		zap.String("discord_user_id", discordUserID))

	return &Binding{DiscordUserID: discordUserID, Member: updated}, nil
}
