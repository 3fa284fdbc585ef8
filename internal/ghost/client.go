// Package ghost is the facade over the membership platform's Admin API.
// It exposes only the member operations the sync engine needs: browse by
// uuid filter, read by id, and label replacement.
package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/config"
	"github.com/ghostsync/member-sync/internal/domain"
)

// Client defines membership platform access.
type Client interface {
	// BrowseMembersByUUID returns members matching the uuid filter.
	// Zero matches yield an empty slice, not an error.
	BrowseMembersByUUID(ctx context.Context, uuid string) ([]domain.Member, error)
	// ReadMember fetches a member by id.
	ReadMember(ctx context.Context, id string) (*domain.Member, error)
	// EditMemberLabels replaces the member's full label set and returns the
	// updated member. This is a full overwrite, not a partial patch.
	EditMemberLabels(ctx context.Context, id string, labels []domain.Label) (*domain.Member, error)
}

type membersEnvelope struct {
	Members []domain.Member `json:"members"`
}

// HTTPClient is the Admin API implementation of Client.
type HTTPClient struct {
	baseURL     string
	adminAPIKey string
	http        *http.Client
	logger      *zap.Logger
}

// NewHTTPClient returns an Admin API backed client.
func NewHTTPClient(cfg config.GhostConfig, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:     cfg.APIURL,
		adminAPIKey: cfg.AdminAPIKey,
		http:        &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:      logger,
	}
}

// BrowseMembersByUUID implements Client.
func (c *HTTPClient) BrowseMembersByUUID(ctx context.Context, uuid string) ([]domain.Member, error) {
	query := url.Values{}
	query.Set("filter", "uuid:"+uuid)
	query.Set("limit", "1")

	env, err := c.do(ctx, http.MethodGet, "/members/", query, nil)
	if err != nil {
		return nil, err
	}
	return env.Members, nil
}

// ReadMember implements Client.
func (c *HTTPClient) ReadMember(ctx context.Context, id string) (*domain.Member, error) {
	env, err := c.do(ctx, http.MethodGet, "/members/"+url.PathEscape(id)+"/", nil, nil)
	if err != nil {
		return nil, err
	}
	if len(env.Members) == 0 {
		return nil, fmt.Errorf("member %s not found", id)
	}
	return &env.Members[0], nil
}

// EditMemberLabels implements Client.
func (c *HTTPClient) EditMemberLabels(ctx context.Context, id string, labels []domain.Label) (*domain.Member, error) {
	if labels == nil {
		labels = []domain.Label{}
	}
	body := membersEnvelope{Members: []domain.Member{{Labels: labels}}}

	env, err := c.do(ctx, http.MethodPut, "/members/"+url.PathEscape(id)+"/", nil, body)
	if err != nil {
		return nil, err
	}
	if len(env.Members) == 0 {
		return nil, fmt.Errorf("member %s edit returned no member", id)
	}
	return &env.Members[0], nil
}

// Ping verifies Admin API reachability and credentials.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/site/", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ghost admin api: status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) (*membersEnvelope, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ghost admin api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("ghost admin api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return nil, fmt.Errorf("ghost admin api %s %s: status %d", method, path, resp.StatusCode)
	}

	var env membersEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode ghost response: %w", err)
	}
	return &env, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	endpoint := c.baseURL + "/ghost/api/admin" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	token, err := adminToken(c.adminAPIKey, time.Now())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Accept-Version", "v5.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
