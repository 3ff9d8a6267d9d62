package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mcitys/mcitys-api/internal/auth/cache"
	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/auth/store"
	"github.com/mcitys/mcitys-api/pkg/cryptox"
)

// fakeUserStore serves fixed fixtures from memory.
type fakeUserStore struct {
	users    map[string]domain.User
	creds    map[string]domain.Credential
	contacts map[string]domain.ContactInfo
}

func (f *fakeUserStore) GetUser(_ context.Context, username string) (domain.User, error) {
	u, ok := f.users[username]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetCredential(_ context.Context, username string) (domain.Credential, error) {
	c, ok := f.creds[username]
	if !ok {
		return domain.Credential{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeUserStore) GetContactInfo(_ context.Context, username string) (domain.ContactInfo, error) {
	c, ok := f.contacts[username]
	if !ok {
		return domain.ContactInfo{}, store.ErrNotFound
	}
	return c, nil
}

// fakeJournal collects audit entries for assertions.
type fakeJournal struct {
	mu      sync.Mutex
	entries []domain.SecurityLogEntry
	err     error
}

func (f *fakeJournal) Append(_ context.Context, entry domain.SecurityLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournal) reasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Reason)
	}
	return out
}

func (f *fakeJournal) last(t *testing.T) domain.SecurityLogEntry {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.entries)
	return f.entries[len(f.entries)-1]
}

// fakeChannel records dispatched messages.
type fakeChannel struct {
	mu       sync.Mutex
	messages []string
	dests    [][]string
	err      error
}

func (f *fakeChannel) SendMessage(_ context.Context, destinations []string, text, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, text)
	f.dests = append(f.dests, destinations)
	return nil
}

// fakeRiskProvider returns a canned score.
type fakeRiskProvider struct {
	score float64
	err   error
}

func (f *fakeRiskProvider) Assess(_ context.Context, _, _ string) (float64, error) {
	return f.score, f.err
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// flowHarness wires a full AuthenticationFlow over miniredis and fakes.
type flowHarness struct {
	flow    *AuthenticationFlow
	redis   *miniredis.Miniredis
	journal *fakeJournal
	channel *fakeChannel
	risk    *fakeRiskProvider
	tokens  *TokenService
}

func newFlowHarness(t *testing.T, score float64) *flowHarness {
	t.Helper()

	mr, client := newTestRedis(t)
	key := newTestKey(t)

	hash, salt, err := cryptox.HashPassword("correct horse battery")
	require.NoError(t, err)

	users := &fakeUserStore{
		users: map[string]domain.User{
			"alice":  {Username: "alice", Privilege: domain.PrivilegeClient, Active: true},
			"frozen": {Username: "frozen", Privilege: domain.PrivilegeClient, Active: false},
		},
		creds: map[string]domain.Credential{
			"alice":  {Username: "alice", PasswordHash: hash, Salt: salt},
			"frozen": {Username: "frozen", PasswordHash: hash, Salt: salt},
		},
		contacts: map[string]domain.ContactInfo{
			"alice": {PhoneNumber: "+61400000001", Email: "alice@example.com"},
		},
	}

	journal := &fakeJournal{}
	channel := &fakeChannel{}
	provider := &fakeRiskProvider{score: score}

	tokens := &TokenService{
		PrivateKey:  key,
		PublicKey:   &key.PublicKey,
		Revocations: cache.NewRevocationList(client),
		TTL:         time.Hour,
	}

	flow := &AuthenticationFlow{
		Login:       &LoginService{Users: users},
		Tokens:      tokens,
		RateLimiter: &RateLimiter{Counter: cache.NewFailureCounter(client, 5*time.Minute)},
		Risk:        &RiskEvaluator{Provider: provider},
		Sessions: &MFASessionService{
			Sessions: cache.NewSessionStore(client, 5*time.Minute),
			OTP:      &OTPService{Users: users, Channel: channel},
		},
		SecurityLog: &SecurityLogger{Journal: journal},
	}

	return &flowHarness{
		flow:    flow,
		redis:   mr,
		journal: journal,
		channel: channel,
		risk:    provider,
		tokens:  tokens,
	}
}
