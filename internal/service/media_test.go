package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/journohub/internal/domain"
)

type fakeStore struct {
	key         string
	contentType string
	body        string
	err         error
	wait        bool
}

func (f *fakeStore) Put(ctx context.Context, key, contentType string, r io.Reader, _ int64) (string, error) {
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	b, _ := io.ReadAll(r)
	f.key, f.contentType, f.body = key, contentType, string(b)
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.test/" + key, nil
}

func TestMediaService_UploadImage(t *testing.T) {
	store := &fakeStore{}
	svc := &MediaService{Store: store}

	url, err := svc.UploadImage(context.Background(), "photo.PNG", "image/png", strings.NewReader("data"), 4)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/"+store.key, url)
	assert.True(t, strings.HasSuffix(store.key, ".png"))
	assert.Equal(t, "image/png", store.contentType)
	assert.Equal(t, "data", store.body)
}

func TestMediaService_UploadImage_ExtensionFromType(t *testing.T) {
	store := &fakeStore{}
	svc := &MediaService{Store: store}

	_, err := svc.UploadImage(context.Background(), "blob", "image/jpeg", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(store.key, ".jpg"))
}

func TestMediaService_UploadImage_Rejections(t *testing.T) {
	svc := &MediaService{Store: &fakeStore{}}

	_, err := svc.UploadImage(context.Background(), "a.txt", "text/plain; charset=utf-8", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UploadImage(context.Background(), "big.png", "image/png", strings.NewReader(""), MaxImageSize+1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	for _, ct := range []string{"image/bmp", "image/x-icon", "image/svg+xml"} {
		_, err = svc.UploadImage(context.Background(), "page.html", ct, strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, domain.ErrValidation, ct)
	}
}

func TestMediaService_UploadImage_IgnoresClientExtension(t *testing.T) {
	store := &fakeStore{}
	svc := &MediaService{Store: store}

	_, err := svc.UploadImage(context.Background(), "page.html", "image/gif", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(store.key, ".gif"), store.key)
}

func TestMediaService_UploadImage_StoreFailures(t *testing.T) {
	_, err := (&MediaService{Store: &fakeStore{err: errBoom}}).
		UploadImage(context.Background(), "a.png", "image/png", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)

	_, err = (&MediaService{Store: &fakeStore{wait: true}, Timeout: 20 * time.Millisecond}).
		UploadImage(context.Background(), "a.png", "image/png", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
