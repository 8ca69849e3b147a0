package sheet

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/saudemt/diskdengue/internal/session"
)

// LocalPhotoStore writes photos to a directory on disk. Storage happens at
// the photo step, so Deferred is false and the recorded reference is a path.
type LocalPhotoStore struct {
	dir string
	now func() time.Time
}

func NewLocalPhotoStore(dir string) *LocalPhotoStore {
	return &LocalPhotoStore{dir: dir, now: time.Now}
}

func (l *LocalPhotoStore) Deferred() bool { return false }

func (l *LocalPhotoStore) Store(ctx context.Context, img session.Image, protocol string) (string, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}

	name := fmt.Sprintf("foto-%s-%04d%s", l.now().Format("20060102-150405"), rand.IntN(10000), extForMime(img.MimeType))
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, img.Data, 0644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return path, nil
}

// SheetPhotoStore uploads photos to the record store. The upload is tagged
// to the row created for the tracking code, so it can only run after the
// record has been appended (Deferred).
type SheetPhotoStore struct {
	client *Client
}

func NewSheetPhotoStore(client *Client) *SheetPhotoStore {
	return &SheetPhotoStore{client: client}
}

func (s *SheetPhotoStore) Deferred() bool { return true }

func (s *SheetPhotoStore) Store(ctx context.Context, img session.Image, protocol string) (string, error) {
	row, err := s.client.FindRow(ctx, protocol)
	if err != nil {
		return "", err
	}
	return s.client.UploadImage(ctx, img, row, protocol+extForMime(img.MimeType))
}

func extForMime(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "png"):
		return ".png"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}
