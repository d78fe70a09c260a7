package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/journohub/internal/events"
	"github.com/Skotchmaster/journohub/internal/models"
	"github.com/Skotchmaster/journohub/internal/repo"
	"github.com/Skotchmaster/journohub/internal/repo/repotest"
	"github.com/Skotchmaster/journohub/internal/service"
	"github.com/Skotchmaster/journohub/internal/storage"
	pkg_hash "github.com/Skotchmaster/journohub/pkg/hash"
	"github.com/Skotchmaster/journohub/pkg/logging"
	"github.com/Skotchmaster/journohub/pkg/tokens"
)

func init() {
	pkg_hash.Cost = 4
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Tokens *tokens.Service
	Users  *service.UserService
	AI     *stubAI

	UploadDir string
}

type stubAI struct {
	reply string
	err   error
}

func (s *stubAI) Suggest(context.Context, string, string) (string, error) {
	return s.reply, s.err
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := repotest.NewDB(t)
	r := repo.New(db)
	tok := tokens.NewService([]byte("http-test-secret"), tokens.DefaultTTL)
	ai := &stubAI{reply: "Consider a stronger lede."}
	uploadDir := t.TempDir()

	users := &service.UserService{Repo: r, Events: events.Nop{}}
	e := NewEcho(logging.NewWithWriter(io.Discard, "error"))
	Register(e, &Deps{
		DB:       db,
		Tokens:   tok,
		Auth:     &AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: tok, Events: events.Nop{}}},
		Users:    &UsersHTTP{Svc: users},
		Articles: &ArticlesHTTP{Svc: &service.ArticleService{Repo: r, Events: events.Nop{}}},
		Stats:    &StatsHTTP{Svc: &service.StatsService{Repo: r}},
		Media: &MediaHTTP{Svc: &service.MediaService{
			Store: &storage.LocalStore{Dir: uploadDir, BaseURL: "/uploads"},
		}},
		Assist:         &AssistHTTP{Svc: &service.AssistService{AI: ai}},
		LocalUploadDir: uploadDir,
		LocalUploadURL: "/uploads",
	})

	return &testEnv{T: t, E: e, DB: db, Repo: r, Tokens: tok, Users: users, AI: ai, UploadDir: uploadDir}
}

func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(env.T, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}

// register creates a student through the API and returns its id and token.
func (env *testEnv) register(email, name string) (string, string) {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": "secret1", "name": name,
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[map[string]any](env.T, rec)
	user := res["user"].(map[string]any)
	return user["id"].(string), res["token"].(string)
}

// admin seeds an admin account and returns its id and token.
func (env *testEnv) admin() (string, string) {
	env.T.Helper()
	require.NoError(env.T, env.Users.SeedAdmin(context.Background(), "admin@uni.edu", "adminpw"))
	rec := env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@uni.edu", "password": "adminpw",
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]any](env.T, rec)
	return res["user"].(map[string]any)["id"].(string), res["token"].(string)
}

func (env *testEnv) createArticle(token string, body map[string]any) models.Article {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/api/articles", body, token)
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	// keep created_at apart between consecutive articles
	time.Sleep(2 * time.Millisecond)
	return decode[models.Article](env.T, rec)
}
