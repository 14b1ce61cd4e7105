// Package storage keeps recipe images outside the database. Recipes store
// only the URL returned by an ImageStore.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidImage is returned for payloads that are not a supported data URL.
var ErrInvalidImage = errors.New("storage: invalid image")

// ImageStore persists an encoded image and returns a stable URL for it.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Image is a decoded data URL.
type Image struct {
	ContentType string
	Ext         string
	Data        []byte
}

var dataURLPattern = regexp.MustCompile(`^data:(image/[a-z0-9.+-]+);base64,(.+)$`)

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeDataURL parses "data:image/<type>;base64,<payload>". The payload is
// not decoded as an image, only as base64.
func DecodeDataURL(s string) (Image, error) {
	m := dataURLPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Image{}, fmt.Errorf("%w: expected a base64 data URL", ErrInvalidImage)
	}
	ext, ok := extensions[m[1]]
	if !ok {
		return Image{}, fmt.Errorf("%w: unsupported type %s", ErrInvalidImage, m[1])
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return Image{ContentType: m[1], Ext: ext, Data: data}, nil
}

// ObjectName returns a fresh object path for img under recipes/images/.
func (img Image) ObjectName() string {
	return "recipes/images/" + uuid.New().String() + "." + img.Ext
}

// SaveImage stores img under a fresh name and returns its URL.
func SaveImage(ctx context.Context, store ImageStore, img Image) (string, error) {
	return store.Save(ctx, img.ObjectName(), img.ContentType, img.Data)
}
