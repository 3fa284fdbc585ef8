package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/cache"
	"github.com/ghostsync/member-sync/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *RESTClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewRESTClient(config.DiscordConfig{
		ClientID:       "client",
		ClientSecret:   "secret",
		BotToken:       "bot-token",
		GuildID:        "g1",
		APIBaseURL:     server.URL,
		TimeoutSeconds: 5,
	}, "https://sync.example.com/auth/discord/return", cache.NewMemory(time.Minute), time.Minute, zap.NewNop())
}

func TestExchangeCode(t *testing.T) {
	var gotForm map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"client_id":    r.PostFormValue("client_id"),
			"grant_type":   r.PostFormValue("grant_type"),
			"code":         r.PostFormValue("code"),
			"redirect_uri": r.PostFormValue("redirect_uri"),
			"scope":        r.PostFormValue("scope"),
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	}))

	token, err := client.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "tok-1", token)
	assert.Equal(t, map[string]string{
		"client_id":    "client",
		"grant_type":   "authorization_code",
		"code":         "auth-code",
		"redirect_uri": "https://sync.example.com/auth/discord/return",
		"scope":        "identify",
	}, gotForm)
}

func TestExchangeCode_Rejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := client.ExchangeCode(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestFetchSelf(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/@me", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "187492"})
	}))

	id, err := client.FetchSelf(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "187492", id)
}

func TestResolveRole_CachesLookups(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/guilds/g1/roles/r1", r.URL.Path)
		require.Equal(t, "Bot bot-token", r.Header.Get("Authorization"))
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "r1", "name": "paid"})
	}))

	require.NoError(t, client.ResolveRole(context.Background(), "g1", "r1"))
	require.NoError(t, client.ResolveRole(context.Background(), "g1", "r1"))

	assert.Equal(t, int32(1), calls.Load(), "second resolve should hit the cache")
}

func TestResolveMember_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := client.ResolveMember(context.Background(), "g1", "u1")
	assert.ErrorIs(t, err, ErrGuildMemberNotFound)
}

func TestAddMemberRoles_OnePutPerRole(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.AddMemberRoles(context.Background(), "g1", "u1", []string{"r1", "r2"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/guilds/g1/members/u1/roles/r1",
		"/guilds/g1/members/u1/roles/r2",
	}, paths)
}

func TestRemoveMemberRoles(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.RemoveMemberRoles(context.Background(), "g1", "u1", []string{"r1", "r2"})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}
