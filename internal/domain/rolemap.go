package domain

import "fmt"

// TierRoleTable maps membership tier ids to Discord role ids. It is built
// once at startup from two equal-length lists; correspondence is positional
// (tier[i] grants role[i]). The external configuration format stays as two
// parallel lists; lengths and duplicate tier ids are validated at
// construction.
type TierRoleTable struct {
	tiers []string
	roles []string
}

// NewTierRoleTable validates and builds the table.
func NewTierRoleTable(tierIDs, roleIDs []string) (*TierRoleTable, error) {
	if len(tierIDs) != len(roleIDs) {
		return nil, fmt.Errorf("tier/role list length mismatch: %d tiers, %d roles", len(tierIDs), len(roleIDs))
	}
	seen := make(map[string]struct{}, len(tierIDs))
	for i, tier := range tierIDs {
		if tier == "" || roleIDs[i] == "" {
			return nil, fmt.Errorf("empty tier or role id at position %d", i)
		}
		if _, dup := seen[tier]; dup {
			return nil, fmt.Errorf("duplicate tier id %q", tier)
		}
		seen[tier] = struct{}{}
	}
	tiers := make([]string, len(tierIDs))
	roles := make([]string, len(roleIDs))
	copy(tiers, tierIDs)
	copy(roles, roleIDs)
	return &TierRoleTable{tiers: tiers, roles: roles}, nil
}

// MapTiersToRoles returns the role ids corresponding to the active tiers, in
// table order. Unknown tiers are ignored; an empty tier set yields an empty
// result (no paid tier means no gated roles).
func (t *TierRoleTable) MapTiersToRoles(activeTierIDs map[string]struct{}) []string {
	if len(activeTierIDs) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.roles))
	seen := make(map[string]struct{}, len(t.roles))
	for i, tier := range t.tiers {
		if _, active := activeTierIDs[tier]; !active {
			continue
		}
		role := t.roles[i]
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

// RoleUniverse returns every role id the table manages, in table order.
// Revoking access strips the full universe, not just previously-granted
// roles, because the engine keeps no grant history.
func (t *TierRoleTable) RoleUniverse() []string {
	out := make([]string, len(t.roles))
	copy(out, t.roles)
	return out
}
