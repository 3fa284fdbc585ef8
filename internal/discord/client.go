// Package discord is the facade over the community platform's REST API.
// Guild, member and role lookups are cached opportunistically with a TTL;
// callers tolerate stale entries, and a miss always triggers a remote fetch.
package discord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/cache"
	"github.com/ghostsync/member-sync/internal/config"
)

// Lookup failures the reconciler reports without remediation.
var (
	ErrGuildNotFound       = errors.New("guild not found")
	ErrGuildMemberNotFound = errors.New("user is not a guild member")
	ErrRoleNotFound        = errors.New("role not found")
)

// Client defines community platform access.
type Client interface {
	// ExchangeCode exchanges an authorization code for a user access token.
	ExchangeCode(ctx context.Context, code string) (string, error)
	// FetchSelf returns the user id owning the access token.
	FetchSelf(ctx context.Context, accessToken string) (string, error)
	// ResolveGuild verifies the guild exists.
	ResolveGuild(ctx context.Context, guildID string) error
	// ResolveMember verifies the user is a member of the guild.
	ResolveMember(ctx context.Context, guildID, userID string) error
	// ResolveRole verifies the role definition, fetching it remotely when
	// not cached.
	ResolveRole(ctx context.Context, guildID, roleID string) error
	// AddMemberRoles grants every role in roleIDs to the guild member.
	AddMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error
	// RemoveMemberRoles revokes every role in roleIDs from the guild member.
	RemoveMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error
}

// RESTClient is the bot-token implementation of Client.
type RESTClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	redirectURL  string
	botToken     string
	http         *http.Client
	cache        cache.Client
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewRESTClient returns a Discord REST API backed client.
func NewRESTClient(cfg config.DiscordConfig, redirectURL string, cacheClient cache.Client, cacheTTL time.Duration, logger *zap.Logger) *RESTClient {
	return &RESTClient{
		baseURL:      cfg.APIBaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  redirectURL,
		botToken:     cfg.BotToken,
		http:         &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		cache:        cacheClient,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// ResolveGuild implements Client.
func (c *RESTClient) ResolveGuild(ctx context.Context, guildID string) error {
	return c.resolve(ctx, "guild:"+guildID, "/guilds/"+url.PathEscape(guildID), ErrGuildNotFound)
}

// ResolveMember implements Client.
func (c *RESTClient) ResolveMember(ctx context.Context, guildID, userID string) error {
	key := "member:" + guildID + ":" + userID
	path := "/guilds/" + url.PathEscape(guildID) + "/members/" + url.PathEscape(userID)
	return c.resolve(ctx, key, path, ErrGuildMemberNotFound)
}

// ResolveRole implements Client.
func (c *RESTClient) ResolveRole(ctx context.Context, guildID, roleID string) error {
	key := "role:" + guildID + ":" + roleID
	path := "/guilds/" + url.PathEscape(guildID) + "/roles/" + url.PathEscape(roleID)
	return c.resolve(ctx, key, path, ErrRoleNotFound)
}

// resolve checks the cache before fetching the resource remotely. Successful
// fetches populate the cache; staleness is acceptable because a cached entry
// only short-circuits an existence check.
func (c *RESTClient) resolve(ctx context.Context, cacheKey, path string, notFound error) error {
	if _, ok := c.cache.Get(ctx, cacheKey); ok {
		return nil
	}

	body, err := c.doBot(ctx, http.MethodGet, path, notFound)
	if err != nil {
		return err
	}
	c.cache.Set(ctx, cacheKey, string(body), c.cacheTTL)
	return nil
}

// AddMemberRoles implements Client. Grants are applied per role; redundant
// grants are no-ops on the remote side.
func (c *RESTClient) AddMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		path := memberRolePath(guildID, userID, roleID)
		if _, err := c.doBot(ctx, http.MethodPut, path, ErrGuildMemberNotFound); err != nil {
			return fmt.Errorf("grant role %s: %w", roleID, err)
		}
	}
	return nil
}

// RemoveMemberRoles implements Client. Revoking a role the member does not
// hold is a no-op on the remote side.
func (c *RESTClient) RemoveMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		path := memberRolePath(guildID, userID, roleID)
		if _, err := c.doBot(ctx, http.MethodDelete, path, ErrGuildMemberNotFound); err != nil {
			return fmt.Errorf("revoke role %s: %w", roleID, err)
		}
	}
	return nil
}

// Ping verifies API reachability via the unauthenticated gateway endpoint.
func (c *RESTClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gateway", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discord api: status %d", resp.StatusCode)
	}
	return nil
}

func memberRolePath(guildID, userID, roleID string) string {
	return "/guilds/" + url.PathEscape(guildID) +
		"/members/" + url.PathEscape(userID) +
		"/roles/" + url.PathEscape(roleID)
}

func (c *RESTClient) doBot(ctx context.Context, method, path string, notFound error) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Warn("discord api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 512)))
		return nil, fmt.Errorf("discord api %s %s: status %d", method, path, resp.StatusCode)
	}
	return body, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
