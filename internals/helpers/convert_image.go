package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/logging"
)

const (
	AvatarSize        = 256
	AvatarMaxBytes    = 5 * 1024 * 1024
	avatarWebPQuality = 80
)

var (
	ErrImageTooLarge        = errors.New("image trop volumineuse (5 Mo maximum)")
	ErrImageType            = errors.New("format d'image non supporté (jpeg ou png)")
	ErrStorageNotConfigured = errors.New("stockage de fichiers non configuré")
)

/* ===============================
   Avatar conversion
=================================*/

// ConvertAvatarToWebP crops the upload to a centred AvatarSize square and encodes it as WebP.
func ConvertAvatarToWebP(fh *multipart.FileHeader) (*bytes.Buffer, error) {
	if fh.Size > AvatarMaxBytes {
		return nil, ErrImageTooLarge
	}
	ct := strings.ToLower(fh.Header.Get("Content-Type"))
	if ct != "" && ct != "image/jpeg" && ct != "image/jpg" && ct != "image/png" {
		return nil, ErrImageType
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("ouverture du fichier: %w", err)
	}
	defer src.Close()

	return EncodeAvatar(io.LimitReader(src, AvatarMaxBytes+1))
}

func EncodeAvatar(r io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrImageType
	}
	var square image.Image = imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	out := new(bytes.Buffer)
	if err := webp.Encode(out, square, &webp.Options{Quality: avatarWebPQuality}); err != nil {
		return nil, fmt.Errorf("encodage webp: %w", err)
	}
	return out, nil
}

/* ===============================
   Object storage (Supabase REST)
=================================*/

type Storage interface {
	Upload(ctx context.Context, bucket, path, contentType string, data *bytes.Buffer) (string, error)
	Delete(ctx context.Context, bucket, path string) error
}

type SupabaseStorage struct {
	ProjectURL string
	ServiceKey string
	Client     *http.Client
}

func NewSupabaseStorage() *SupabaseStorage {
	return &SupabaseStorage{
		ProjectURL: configs.SupabaseProjectURL,
		ServiceKey: configs.SupabaseServiceRoleKey,
		Client:     &http.Client{Timeout: 20 * time.Second},
	}
}

// Upload stores the object (upsert) and returns its public URL.
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path, contentType string, data *bytes.Buffer) (string, error) {
	if s.ProjectURL == "" || s.ServiceKey == "" {
		return "", ErrStorageNotConfigured
	}
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.ProjectURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, data)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("envoi vers le stockage: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("upload refusé (status %d): %s", resp.StatusCode, string(body))
	}
	return PublicObjectURL(s.ProjectURL, bucket, path), nil
}

func (s *SupabaseStorage) Delete(ctx context.Context, bucket, path string) error {
	if s.ProjectURL == "" || s.ServiceKey == "" {
		return ErrStorageNotConfigured
	}
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.ProjectURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("suppression refusée (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

func PublicObjectURL(projectURL, bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", strings.TrimRight(projectURL, "/"), bucket, url.PathEscape(path))
}

// ExtractStoragePath splits a public object URL into bucket and path.
func ExtractStoragePath(fullURL string) (bucket string, path string, err error) {
	u, err := url.Parse(fullURL)
	if err != nil {
		return "", "", err
	}
	parts := strings.SplitN(u.Path, "/object/public/", 2)
	if len(parts) < 2 {
		return "", "", errors.New("URL de stockage invalide")
	}
	bp := strings.SplitN(parts[1], "/", 2)
	if len(bp) < 2 || bp[0] == "" || bp[1] == "" {
		return "", "", errors.New("URL de stockage invalide")
	}
	p, err := url.PathUnescape(bp[1])
	if err != nil {
		return "", "", err
	}
	return bp[0], p, nil
}

var reUnsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func GenerateUniqueFilename(folder, originalFilename string) string {
	safe := reUnsafeFilename.ReplaceAllString(originalFilename, "_")
	return fmt.Sprintf("%s/%s-%s-%s", folder, time.Now().Format("20060102"), uuid.NewString(), safe)
}

// DeleteStoredObject removes a previously uploaded object; failures are only logged.
func DeleteStoredObject(ctx context.Context, st Storage, publicURL string) {
	if st == nil || strings.TrimSpace(publicURL) == "" {
		return
	}
	bucket, path, err := ExtractStoragePath(publicURL)
	if err != nil {
		return
	}
	if err := st.Delete(ctx, bucket, path); err != nil {
		logging.L().Warnw("old object not deleted", "bucket", bucket, "path", path, "error", err)
	}
}
