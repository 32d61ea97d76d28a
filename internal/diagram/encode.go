package diagram

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// Encode writes img in the named format: png, webp, tga or bmp.
func Encode(w io.Writer, format string, img image.Image) error {
	var err error
	switch format {
	case "png":
		err = png.Encode(w, img)
	case "webp":
		err = nativewebp.Encode(w, img, nil)
	case "tga":
		err = tga.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("diagram: unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("diagram: %s encode: %w", format, err)
	}
	return nil
}

// Save writes img to path, choosing the format from the extension.
func Save(path string, img image.Image) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "png", "webp", "tga", "bmp":
	default:
		return fmt.Errorf("diagram: %s: unsupported format %q", path, format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("diagram: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("diagram: %w", err)
	}
	if err := Encode(f, format, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
