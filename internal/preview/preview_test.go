package preview

import (
	"bytes"
	"encoding/base64"
	"image"
	"testing"
)

// A 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestThumbnail(t *testing.T) {
	t.Run("re-encodes a decodable image as jpeg", func(t *testing.T) {
		data, err := base64.StdEncoding.DecodeString(tinyPNG)
		if err != nil {
			t.Fatalf("decode fixture: %v", err)
		}

		out, contentType, err := Thumbnail(data, 300)
		if err != nil {
			t.Fatalf("Thumbnail() error = %v", err)
		}
		if contentType != "image/jpeg" {
			t.Errorf("contentType = %v, want image/jpeg", contentType)
		}

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("output does not decode: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("format = %v, want jpeg", format)
		}
		if cfg.Width > 300 || cfg.Height > 300 {
			t.Errorf("dimensions = %dx%d, want within 300x300", cfg.Width, cfg.Height)
		}
	})

	t.Run("undecodable bytes are an error", func(t *testing.T) {
		if _, _, err := Thumbnail([]byte("not an image"), 300); err == nil {
			t.Error("Expected error for undecodable bytes")
		}
	})
}
