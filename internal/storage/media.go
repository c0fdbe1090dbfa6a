package storage

import (
	"context"
	"path"
	"strings"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/google/uuid"
)

const (
	MaxImageBytes = 5 * 1024 * 1024
	MaxVideoBytes = 10 * 1024 * 1024

	// VideoDurationSeconds is recorded for every uploaded video.
	VideoDurationSeconds = 10.0
)

// Store persists media objects under the uploading user's prefix and
// releases them by URL.
type Store interface {
	Validate(contentType string, size int) error
	Put(ctx context.Context, ownerID string, data []byte, contentType string) (domain.Media, error)
	Delete(ctx context.Context, url string) error
	// Owner reports the user an object was stored for. ok is false for URLs
	// the store did not issue.
	Owner(url string) (owner string, ok bool)
}

var imageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

var videoTypes = map[string]string{
	"video/mp4":       "mp4",
	"video/webm":      "webm",
	"video/ogg":       "ogv",
	"video/avi":       "avi",
	"video/quicktime": "mov",
}

// normalize drops parameters such as "; charset=binary".
func normalize(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// MediaTypeOf classifies an allowed content type.
func MediaTypeOf(contentType string) (domain.MediaType, bool) {
	ct := normalize(contentType)
	if _, ok := imageTypes[ct]; ok {
		return domain.MediaImage, true
	}
	if _, ok := videoTypes[ct]; ok {
		return domain.MediaVideo, true
	}
	return "", false
}

// Validate checks the content type against the allow-list and the size
// against the per-type cap.
func Validate(contentType string, size int) error {
	mt, ok := MediaTypeOf(contentType)
	if !ok {
		return domain.Errorf(domain.ErrValidation, "content type %q is not allowed", contentType)
	}
	if size <= 0 {
		return domain.NewError(domain.ErrValidation, "media body is empty")
	}
	limit := MaxImageBytes
	if mt == domain.MediaVideo {
		limit = MaxVideoBytes
	}
	if size > limit {
		return domain.Errorf(domain.ErrValidation, "%s exceeds the %d MB limit", mt, limit/(1024*1024))
	}
	return nil
}

// Extension returns the object key extension for contentType.
func Extension(contentType string) string {
	ct := normalize(contentType)
	if ext, ok := imageTypes[ct]; ok {
		return ext
	}
	if ext, ok := videoTypes[ct]; ok {
		return ext
	}
	return "bin"
}

// newKey builds "<owner>/<uuid>.<ext>".
func newKey(ownerID, contentType string) (string, error) {
	if !validSegment(ownerID) {
		return "", domain.NewError(domain.ErrValidation, "media owner is required")
	}
	return ownerID + "/" + uuid.NewString() + "." + Extension(contentType), nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, "/?#\\")
}

// splitObjectURL returns the key of rawURL relative to base along with its
// owner segment. ok is false unless rawURL is exactly base/<owner>/<file>.
func splitObjectURL(base, rawURL string) (key, owner string, ok bool) {
	rest, found := strings.CutPrefix(rawURL, strings.TrimRight(base, "/")+"/")
	if !found {
		return "", "", false
	}
	owner, file, found := strings.Cut(rest, "/")
	if !found || !validSegment(owner) || !validSegment(file) {
		return "", "", false
	}
	return rest, owner, true
}

// keyFor resolves rawURL to a key in the store rooted at base.
func keyFor(base, rawURL string) (string, error) {
	key, _, ok := splitObjectURL(base, rawURL)
	if !ok {
		return "", domain.Errorf(domain.ErrValidation, "media url %q was not issued by this store", rawURL)
	}
	return key, nil
}

func thumbnailKey(key string) string {
	return strings.TrimSuffix(key, path.Ext(key)) + "_thumb.jpg"
}

func isImageKey(key string) bool {
	ext := strings.TrimPrefix(path.Ext(key), ".")
	for _, e := range imageTypes {
		if e == ext {
			return true
		}
	}
	return false
}

func newMedia(contentType, url string) domain.Media {
	mt, _ := MediaTypeOf(contentType)
	m := domain.Media{Type: mt, URL: url}
	if mt == domain.MediaVideo {
		d := VideoDurationSeconds
		m.Duration = &d
	}
	return m
}
