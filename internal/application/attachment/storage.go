// Package attachment validates uploads and builds storage keys for quote
// artwork and product images.
package attachment

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// MaxUploadSize bounds a single uploaded file
const MaxUploadSize = 25 << 20

// ObjectStorage is the file store used for attachments
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// Scope names the owner kind of an attachment
type Scope string

const (
	ScopeQuoteItem    Scope = "quote-items"
	ScopeProductImage Scope = "products"
)

// AllowedContentTypes lists what each scope accepts. SVG is excluded (script injection).
var AllowedContentTypes = map[Scope]map[string]bool{
	ScopeQuoteItem: {
		"image/jpeg":                true,
		"image/png":                 true,
		"image/tiff":                true,
		"image/webp":                true,
		"application/pdf":           true,
		"application/postscript":    true,
		"application/zip":           true,
		"application/illustrator":   true,
		"image/vnd.adobe.photoshop": true,
	},
	ScopeProductImage: {
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	},
}

// File is an upload received from a client
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Validate checks size and content type for scope
func (f File) Validate(scope Scope) error {
	if len(f.Data) == 0 {
		return shared.NewValidationError("file is empty")
	}
	if len(f.Data) > MaxUploadSize {
		return shared.NewValidationError(fmt.Sprintf("file exceeds %d MB", MaxUploadSize>>20))
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(f.ContentType, ";")[0]))
	if !AllowedContentTypes[scope][contentType] {
		return shared.NewValidationError(fmt.Sprintf("content type %q is not allowed", contentType))
	}
	return nil
}

// BuildKey returns "<tenant>/<scope>/<owner>/<unix nanos>-<sanitized name>"
func BuildKey(tenantID uuid.UUID, scope Scope, ownerID uuid.UUID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%d-%s", tenantID, scope, ownerID, now.UnixNano(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	s := strings.Trim(sb.String(), "._")
	if s == "" {
		return "file"
	}
	if len(s) > 100 {
		s = s[len(s)-100:]
	}
	return s
}
