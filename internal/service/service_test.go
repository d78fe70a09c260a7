package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/journohub/internal/models"
	"github.com/Skotchmaster/journohub/internal/repo"
	"github.com/Skotchmaster/journohub/internal/repo/repotest"
	pkg_hash "github.com/Skotchmaster/journohub/pkg/hash"
	"github.com/Skotchmaster/journohub/pkg/tokens"
)

func init() {
	pkg_hash.Cost = 4
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, _ := event.(map[string]any)
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i], _ = e.Event["type"].(string)
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]models.Article
	removed []string
	hits    []string
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]models.Article{}}
}

func (f *fakeIndex) IndexArticle(_ context.Context, a models.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[a.ID] = a
	return f.err
}

func (f *fakeIndex) RemoveArticle(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []string, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

type fakeCache struct {
	payload     []byte
	sets        int
	invalidated int
}

func (f *fakeCache) Get(context.Context) ([]byte, bool, error) {
	return f.payload, f.payload != nil, nil
}

func (f *fakeCache) Set(_ context.Context, p []byte) error {
	f.payload = p
	f.sets++
	return nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.payload = nil
	f.invalidated++
	return nil
}

type testEnv struct {
	repo     *repo.GormRepo
	tokens   *tokens.Service
	events   *fakePublisher
	index    *fakeIndex
	cache    *fakeCache
	auth     *AuthService
	users    *UserService
	articles *ArticleService
	stats    *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repo.New(repotest.NewDB(t))
	env := &testEnv{
		repo:   r,
		tokens: tokens.NewService([]byte("test-secret"), tokens.DefaultTTL),
		events: &fakePublisher{},
		index:  newFakeIndex(),
		cache:  &fakeCache{},
	}
	env.auth = &AuthService{Repo: r, Tokens: env.tokens, Events: env.events}
	env.users = &UserService{Repo: r, Events: env.events, Search: env.index, Cache: env.cache}
	env.articles = &ArticleService{Repo: r, Events: env.events, Index: env.index, Cache: env.cache}
	env.stats = &StatsService{Repo: r}
	return env
}

func (e *testEnv) mustUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	h, err := hashPassword("secret1")
	require.NoError(t, err)
	u := &models.User{Email: email, PasswordHash: h, Role: role, Name: "User " + email}
	require.NoError(t, e.repo.CreateUser(context.Background(), u))
	return u
}

// tick keeps timestamps of consecutive writes apart.
func tick() { time.Sleep(2 * time.Millisecond) }

var errBoom = errors.New("boom")
