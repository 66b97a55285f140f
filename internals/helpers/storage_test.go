package helper

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageURLRoundTrip(t *testing.T) {
	url := PublicObjectURL("https://x.supabase.co/", "image", "avatars/42/a b.webp")
	bucket, path, err := ExtractStoragePath(url)
	require.NoError(t, err)
	assert.Equal(t, "image", bucket)
	assert.Equal(t, "avatars/42/a b.webp", path)

	_, _, err = ExtractStoragePath("https://example.com/nothing/here")
	assert.Error(t, err)
}

func TestSupabaseUpload(t *testing.T) {
	var gotPath, gotAuth, gotUpsert string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := &SupabaseStorage{ProjectURL: srv.URL, ServiceKey: "svc", Client: srv.Client()}
	url, err := s.Upload(context.Background(), "image", "avatars/1/a.webp", "image/webp", bytes.NewBufferString("data"))
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/image/avatars/1/a.webp", gotPath)
	assert.Equal(t, "Bearer svc", gotAuth)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "data", string(gotBody))
	assert.Contains(t, url, "/storage/v1/object/public/image/")
}

func TestSupabaseNotConfigured(t *testing.T) {
	s := &SupabaseStorage{}
	_, err := s.Upload(context.Background(), "image", "a", "image/webp", new(bytes.Buffer))
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
	assert.ErrorIs(t, s.Delete(context.Background(), "image", "a"), ErrStorageNotConfigured)
}

func TestEncodeAvatar(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for x := 0; x < 400; x++ {
		for y := 0; y < 300; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, img))

	out, err := EncodeAvatar(&src)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(out.Bytes()[:4]))

	_, err = EncodeAvatar(bytes.NewBufferString("not an image"))
	assert.ErrorIs(t, err, ErrImageType)
}
