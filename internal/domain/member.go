package domain

// Label is a free-form text annotation on a membership record.
type Label struct {
	Name string `json:"name"`
}

// Tier identifies a paid membership tier.
type Tier struct {
	ID string `json:"id"`
}

// Subscription is one active paid subscription on a member.
type Subscription struct {
	ID   string `json:"id"`
	Tier Tier   `json:"tier"`
}

// Member is the membership record owned by the publishing platform.
// This service never creates or deletes members, it only edits labels.
type Member struct {
	ID            string         `json:"id"`
	UUID          string         `json:"uuid,omitempty"`
	Labels        []Label        `json:"labels"`
	Subscriptions []Subscription `json:"subscriptions"`
}

// BindingLabelPrefix is the reserved label prefix encoding the Discord
// identity binding, e.g. "discordId=187492".
const BindingLabelPrefix = "discordId="

// DiscordID extracts the bound Discord user id from the member's labels.
func (m *Member) DiscordID() (string, bool) {
	for _, label := range m.Labels {
		if len(label.Name) > len(BindingLabelPrefix) && label.Name[:len(BindingLabelPrefix)] == BindingLabelPrefix {
			return label.Name[len(BindingLabelPrefix):], true
		}
	}
	return "", false
}

// ActiveTierIDs returns the set of tier ids across active subscriptions.
func (m *Member) ActiveTierIDs() map[string]struct{} {
	tiers := make(map[string]struct{}, len(m.Subscriptions))
	for _, sub := range m.Subscriptions {
		if sub.Tier.ID != "" {
			tiers[sub.Tier.ID] = struct{}{}
		}
	}
	return tiers
}

// WithBinding returns a new label set with any prior binding label removed
// and a single binding label for discordUserID appended. At most one binding
// label may exist per member; rewriting enforces that invariant.
func WithBinding(labels []Label, discordUserID string) []Label {
	out := make([]Label, 0, len(labels)+1)
	for _, label := range labels {
		if len(label.Name) >= len(BindingLabelPrefix) && label.Name[:len(BindingLabelPrefix)] == BindingLabelPrefix {
			continue
		}
		out = append(out, label)
	}
	return append(out, Label{Name: BindingLabelPrefix + discordUserID})
}
