package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func dataURL(mime string, b []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantExt string
		wantErr bool
	}{
		{"png", dataURL("image/png", pngBytes), "png", false},
		{"jpeg", dataURL("image/jpeg", []byte{0xff, 0xd8, 0xff}), "jpg", false},
		{"not a data url", "https://example.com/a.png", "", true},
		{"unsupported type", dataURL("image/tiff", pngBytes), "", true},
		{"bad base64", "data:image/png;base64,@@@", "", true},
		{"text mime", dataURL("text/plain", []byte("hi")), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeDataURL(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidImage) {
					t.Fatalf("error = %v, want ErrInvalidImage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Ext != tt.wantExt {
				t.Errorf("Ext = %q, want %q", img.Ext, tt.wantExt)
			}
		})
	}
}

func TestLocalStore_Save(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/media")

	img, err := DecodeDataURL(dataURL("image/png", pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	url, err := SaveImage(context.Background(), store, img)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if !strings.HasPrefix(url, "/media/recipes/images/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("unexpected url %q", url)
	}

	rel := strings.TrimPrefix(url, "/media/")
	got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if !bytes.Equal(got, pngBytes) {
		t.Error("stored bytes differ from input")
	}
}

func TestLocalStore_NameCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/media/")

	url, err := store.Save(context.Background(), "../../etc/evil.png", "image/png", pngBytes)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/media/etc/evil.png" {
		t.Errorf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(root, "etc", "evil.png")); err != nil {
		t.Errorf("file should be written inside root: %v", err)
	}
}
