package handlers

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/domain"
	"github.com/ghostsync/member-sync/internal/observability"
	"github.com/ghostsync/member-sync/internal/service"
)

// fakeGhost serves a single member and records reads.
type fakeGhost struct {
	mu     sync.Mutex
	member *domain.Member
	reads  []string
	edits  int
}

func (g *fakeGhost) BrowseMembersByUUID(_ context.Context, uuid string) ([]domain.Member, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.member != nil && g.member.UUID == uuid {
		return []domain.Member{*g.member}, nil
	}
	return nil, nil
}

func (g *fakeGhost) ReadMember(_ context.Context, id string) (*domain.Member, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reads = append(g.reads, id)
	if g.member != nil && g.member.ID == id {
		m := *g.member
		return &m, nil
	}
	return nil, errors.New("member not found")
}

func (g *fakeGhost) EditMemberLabels(_ context.Context, id string, labels []domain.Label) (*domain.Member, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.member == nil || g.member.ID != id {
		return nil, errors.New("member not found")
	}
	g.edits++
	g.member.Labels = labels
	m := *g.member
	return &m, nil
}

func (g *fakeGhost) readCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reads)
}

// fakeDiscord answers the handshake and records role calls.
type fakeDiscord struct {
	mu      sync.Mutex
	userID  string
	addErr  error
	added   [][]string
	removed [][]string
}

func (d *fakeDiscord) ExchangeCode(_ context.Context, _ string) (string, error) {
	return "fake-token", nil
}

func (d *fakeDiscord) FetchSelf(_ context.Context, _ string) (string, error) {
	if d.userID == "" {
		return "fake-user", nil
	}
	return d.userID, nil
}

func (d *fakeDiscord) ResolveGuild(_ context.Context, _ string) error     { return nil }
func (d *fakeDiscord) ResolveMember(_ context.Context, _, _ string) error { return nil }
func (d *fakeDiscord) ResolveRole(_ context.Context, _, _ string) error   { return nil }

func (d *fakeDiscord) AddMemberRoles(_ context.Context, _, _ string, roleIDs []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.addErr != nil {
		return d.addErr
	}
	d.added = append(d.added, roleIDs)
	return nil
}

func (d *fakeDiscord) RemoveMemberRoles(_ context.Context, _, _ string, roleIDs []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removed = append(d.removed, roleIDs)
	return nil
}

func newTestSyncService(ghostClient *fakeGhost, discordClient *fakeDiscord, table *domain.TierRoleTable) *service.SyncService {
	logger := zap.NewNop()
	return service.NewSyncService(service.SyncDependencies{
		Linker:     service.NewLinkService(ghostClient, discordClient, logger),
		Reconciler: service.NewReconcileService(discordClient, "g1", table, logger),
		Ghost:      ghostClient,
		Table:      table,
		Metrics:    observability.NewMetrics(),
	}, logger)
}
