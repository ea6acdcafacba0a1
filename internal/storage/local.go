// Package storage keeps uploaded media files on the local filesystem.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"portfolio-cms/internal/config"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedType is returned for uploads that are not an allowed image type.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge is returned when an upload exceeds the byte or pixel limit.
	ErrTooLarge = errors.New("file too large")
	// ErrInvalidImage is returned when an upload cannot be decoded.
	ErrInvalidImage = errors.New("invalid image")
)

// maxPixels bounds width*height before a full decode.
const maxPixels = 50_000_000

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

const thumbDir = "thumbs"

// Object describes a stored file.
type Object struct {
	Filename     string
	OriginalURL  string
	ThumbnailURL string
	Size         int64
	Width        int
	Height       int
	MimeType     string
}

// LocalStore writes uploads below a directory served at a public path.
type LocalStore struct {
	dir        string
	publicPath string
	maxBytes   int64
	thumbWidth int
}

// NewLocalStore creates the upload directories if needed.
func NewLocalStore(cfg config.MediaConfig) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, thumbDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{
		dir:        cfg.Dir,
		publicPath: "/" + strings.Trim(cfg.PublicPath, "/"),
		maxBytes:   cfg.MaxUploadMB * 1024 * 1024,
		thumbWidth: cfg.ThumbnailWidth,
	}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string { return s.dir }

// PublicPath returns the URL prefix files are served under.
func (s *LocalStore) PublicPath() string { return s.publicPath }

// Save stores the upload under a fresh name and writes a thumbnail next to it.
// Thumbnail failures fall back to the original URL.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (*Object, error) {
	limited := io.LimitReader(r, s.maxBytes+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if s.maxBytes > 0 && int64(len(buf)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds the %d MB limit", ErrTooLarge, originalName, s.maxBytes/1024/1024)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mimeType := http.DetectContentType(buf)
	ext, ok := allowedTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), buf, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	obj := &Object{
		Filename:     originalName,
		OriginalURL:  path.Join(s.publicPath, name),
		ThumbnailURL: path.Join(s.publicPath, name),
		Size:         int64(len(buf)),
		Width:        cfg.Width,
		Height:       cfg.Height,
		MimeType:     mimeType,
	}
	if s.thumbWidth <= 0 || obj.Width <= s.thumbWidth {
		return obj, nil
	}

	img, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return obj, nil
	}
	thumbName := path.Join(thumbDir, name)
	if format == "webp" {
		thumbName = strings.TrimSuffix(thumbName, ext) + ".png"
		format = "png"
	}
	if err := writeThumbnail(filepath.Join(s.dir, filepath.FromSlash(thumbName)), Thumbnail(img, s.thumbWidth), format); err == nil {
		obj.ThumbnailURL = path.Join(s.publicPath, thumbName)
	}
	return obj, nil
}

// Delete removes the files behind the given public URLs. Missing files are
// not an error.
func (s *LocalStore) Delete(_ context.Context, urls ...string) error {
	var errs []error
	for _, u := range urls {
		rel, ok := strings.CutPrefix(u, s.publicPath+"/")
		if !ok || rel == "" || strings.Contains(rel, "..") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel))); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeThumbnail(dst string, img image.Image, format string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	switch format {
	case "png":
		return png.Encode(f, img)
	case "gif":
		return gif.Encode(f, img, nil)
	default:
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
	}
}

// Thumbnail scales img down to width pixels wide, keeping the aspect ratio.
func Thumbnail(img image.Image, width int) image.Image {
	src := img.Bounds()
	if width <= 0 || src.Dx() <= width {
		return img
	}
	height := src.Dy() * width / src.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}
