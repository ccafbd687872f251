package ingest

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Register the image formats the decoder is known to emit so payloads
	// can be sniffed and, where needed, re-encoded.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ResourceWriteError reports a failed image persistence. It is caught inside
// normalization: the affected block keeps an empty Src and the job proceeds.
type ResourceWriteError struct {
	Path string
	Err  error
}

func (e *ResourceWriteError) Error() string {
	return fmt.Sprintf("writing resource %s: %v", e.Path, e.Err)
}

func (e *ResourceWriteError) Unwrap() error {
	return e.Err
}

// SavedImage describes a persisted image payload.
type SavedImage struct {
	Src    string // reference path for rendering
	Width  int    // pixel width, 0 when the payload could not be sniffed
	Height int    // pixel height, 0 when the payload could not be sniffed
}

// Store persists extracted image payloads under a per-job namespace and
// returns the reference path rendering will use.
type Store interface {
	SaveImage(jobID string, page, number int, ext string, data []byte) (SavedImage, error)
}

// DiscardStore drops image payloads. Blocks normalized through it keep an
// empty Src, which rendering skips; useful for in-memory conversions that
// never serve resources.
type DiscardStore struct{}

// SaveImage discards the payload and reports no reference path.
func (DiscardStore) SaveImage(string, int, int, string, []byte) (SavedImage, error) {
	return SavedImage{}, nil
}

// webSafe lists the extensions browsers render natively; payloads in these
// formats are written through unchanged.
var webSafe = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// DirStore persists images beneath a static-files root, one directory per
// job: <root>/images/<jobID>/p<page>_img<number>.<ext>. Payloads in formats
// browsers cannot display (bmp, tiff, webp and anything unrecognized) are
// re-encoded to PNG.
type DirStore struct {
	Root    string // static-files root directory
	BaseURL string // URL prefix the root is served under
}

// NewDirStore creates a store rooted at dir, served under /static.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Root: dir, BaseURL: "/static"}
}

// SaveImage writes the payload and returns its reference path. The returned
// error is always a *ResourceWriteError.
func (s *DirStore) SaveImage(jobID string, page, number int, ext string, data []byte) (SavedImage, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	cfg, sniffed, sniffErr := image.DecodeConfig(bytes.NewReader(data))
	if ext == "" && sniffErr == nil {
		ext = sniffed
	}

	saved := SavedImage{}
	if sniffErr == nil {
		saved.Width = cfg.Width
		saved.Height = cfg.Height
	}

	payload := data
	if !webSafe[ext] {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return SavedImage{}, &ResourceWriteError{
				Path: s.objectPath(jobID, page, number, ext),
				Err:  fmt.Errorf("decoding %s payload: %w", ext, err),
			}
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return SavedImage{}, &ResourceWriteError{
				Path: s.objectPath(jobID, page, number, ext),
				Err:  fmt.Errorf("encoding png: %w", err),
			}
		}
		payload = buf.Bytes()
		bounds := img.Bounds()
		saved.Width = bounds.Dx()
		saved.Height = bounds.Dy()
		ext = "png"
	}

	target := s.objectPath(jobID, page, number, ext)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return SavedImage{}, &ResourceWriteError{Path: target, Err: err}
	}
	if err := os.WriteFile(target, payload, 0o644); err != nil {
		return SavedImage{}, &ResourceWriteError{Path: target, Err: err}
	}

	saved.Src = fmt.Sprintf("%s/images/%s/%s", s.BaseURL, jobID, imageFilename(page, number, ext))
	return saved, nil
}

func (s *DirStore) objectPath(jobID string, page, number int, ext string) string {
	return filepath.Join(s.Root, "images", jobID, imageFilename(page, number, ext))
}

func imageFilename(page, number int, ext string) string {
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("p%d_img%d.%s", page, number, ext)
}
