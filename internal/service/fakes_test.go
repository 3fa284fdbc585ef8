package service

import (
	"context"
	"errors"

	"github.com/ghostsync/member-sync/internal/domain"
)

// fakeGhost is an in-memory stand-in for the membership platform.
type fakeGhost struct {
	membersByUUID map[string]domain.Member
	membersByID   map[string]domain.Member

	browseErr error
	readErr   error
	editErr   error

	readCalls []string
	editCalls []editCall
}

type editCall struct {
	memberID string
	labels   []domain.Label
}

func newFakeGhost(members ...domain.Member) *fakeGhost {
	g := &fakeGhost{
		membersByUUID: make(map[string]domain.Member),
		membersByID:   make(map[string]domain.Member),
	}
	for _, m := range members {
		g.membersByUUID[m.UUID] = m
		g.membersByID[m.ID] = m
	}
	return g
}

func (g *fakeGhost) BrowseMembersByUUID(_ context.Context, uuid string) ([]domain.Member, error) {
	if g.browseErr != nil {
		return nil, g.browseErr
	}
	if m, ok := g.membersByUUID[uuid]; ok {
		return []domain.Member{m}, nil
	}
	return nil, nil
}

func (g *fakeGhost) ReadMember(_ context.Context, id string) (*domain.Member, error) {
	g.readCalls = append(g.readCalls, id)
	if g.readErr != nil {
		return nil, g.readErr
	}
	if m, ok := g.membersByID[id]; ok {
		return &m, nil
	}
	return nil, errors.New("member not found")
}

func (g *fakeGhost) EditMemberLabels(_ context.Context, id string, labels []domain.Label) (*domain.Member, error) {
	if g.editErr != nil {
		return nil, g.editErr
	}
	g.editCalls = append(g.editCalls, editCall{memberID: id, labels: labels})
	m, ok := g.membersByID[id]
	if !ok {
		return nil, errors.New("member not found")
	}
	m.Labels = labels
	g.membersByID[id] = m
	g.membersByUUID[m.UUID] = m
	return &m, nil
}

// fakeDiscord records community platform calls.
type fakeDiscord struct {
	accessToken string
	userID      string

	exchangeErr      error
	fetchErr         error
	resolveGuildErr  error
	resolveMemberErr error
	resolveRoleErr   error
	addErr           error
	removeErr        error

	exchangedCodes []string
	resolvedRoles  []string
	addedRoles     [][]string
	removedRoles   [][]string
}

func (d *fakeDiscord) ExchangeCode(_ context.Context, code string) (string, error) {
	d.exchangedCodes = append(d.exchangedCodes, code)
	if d.exchangeErr != nil {
		return "", d.exchangeErr
	}
	if d.accessToken == "" {
		return "fake-token", nil
	}
	return d.accessToken, nil
}

func (d *fakeDiscord) FetchSelf(_ context.Context, _ string) (string, error) {
	if d.fetchErr != nil {
		return "", d.fetchErr
	}
	return d.userID, nil
}

func (d *fakeDiscord) ResolveGuild(_ context.Context, _ string) error {
	return d.resolveGuildErr
}

func (d *fakeDiscord) ResolveMember(_ context.Context, _, _ string) error {
	return d.resolveMemberErr
}

func (d *fakeDiscord) ResolveRole(_ context.Context, _, roleID string) error {
	if d.resolveRoleErr != nil {
		return d.resolveRoleErr
	}
	d.resolvedRoles = append(d.resolvedRoles, roleID)
	return nil
}

func (d *fakeDiscord) AddMemberRoles(_ context.Context, _, _ string, roleIDs []string) error {
	if d.addErr != nil {
		return d.addErr
	}
	d.addedRoles = append(d.addedRoles, roleIDs)
	return nil
}

func (d *fakeDiscord) RemoveMemberRoles(_ context.Context, _, _ string, roleIDs []string) error {
	if d.removeErr != nil {
		return d.removeErr
	}
	d.removedRoles = append(d.removedRoles, roleIDs)
	return nil
}
