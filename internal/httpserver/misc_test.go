package httpserver

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG header plus padding; enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func (env *testEnv) upload(token, field, filename string, content []byte) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(env.T, err)
	_, err = fw.Write(content)
	require.NoError(env.T, err)
	require.NoError(env.T, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func TestUpload_StoresImageAndServesIt(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.register("pic@uni.edu", "Pic")

	rec := env.upload(tok, "image", "cover.png", pngBytes)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	url := decode[map[string]string](t, rec)["url"]
	require.True(t, strings.HasPrefix(url, "/uploads/images/"), url)
	require.True(t, strings.HasSuffix(url, ".png"), url)

	get := env.do(http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, pngBytes, get.Body.Bytes())
}

func TestUpload_Rejections(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.register("pic@uni.edu", "Pic")

	rec := env.upload(tok, "file", "cover.png", pngBytes)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", message(t, rec))

	rec = env.upload(tok, "image", "notes.txt", []byte("just some text, not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// sniffs as image/bmp, which is not an accepted upload type
	bmpHTML := []byte("BM<html><script>alert(document.domain)</script></html>")
	rec = env.upload(tok, "image", "evil.html", bmpHTML)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	entries, err := os.ReadDir(env.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Equal(t, http.StatusUnauthorized, env.upload("", "image", "cover.png", pngBytes).Code)
}

func TestAssist(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.register("w@uni.edu", "W")

	rec := env.do(http.MethodPost, "/api/ai/assist", map[string]string{"prompt": "My draft", "context": "news"}, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Consider a stronger lede.", decode[map[string]string](t, rec)["suggestion"])

	rec = env.do(http.MethodPost, "/api/ai/assist", map[string]string{"context": "news"}, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), "prompt is required")

	env.AI.err = errors.New("upstream down")
	rec = env.do(http.MethodPost, "/api/ai/assist", map[string]string{"prompt": "My draft"}, tok)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Error getting AI assistance", message(t, rec))

	assert.Equal(t, http.StatusUnauthorized,
		env.do(http.MethodPost, "/api/ai/assist", map[string]string{"prompt": "x"}, "").Code)
}

func TestStatsOverview(t *testing.T) {
	env := newTestEnv(t)
	_, adminTok := env.admin()
	_, tok := env.register("s@uni.edu", "S")
	env.createArticle(tok, map[string]any{"title": "Draft", "body": "x"})
	env.createArticle(tok, map[string]any{"title": "Live", "body": "x", "status": "published"})

	rec := env.do(http.MethodGet, "/api/stats/overview", nil, adminTok)
	require.Equal(t, http.StatusOK, rec.Code)

	o := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, o["totalArticles"])
	assert.EqualValues(t, 1, o["publishedArticles"])
	assert.EqualValues(t, 2, o["activeUsers"])
	recent := o["recentActivity"].([]any)
	require.Len(t, recent, 2)
	first := recent[0].(map[string]any)
	assert.Equal(t, "Article published", first["action"])
	assert.Equal(t, "Live", first["details"])
}
