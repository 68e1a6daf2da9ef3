package loader

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"net/url"
	"strings"

	"github.com/SAP-F-2025/frame-player/internal/models"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Resolver turns an image reference into its natural pixel size and a URL the
// presentation layer can fetch it from.
type Resolver interface {
	Resolve(ctx context.Context, image string) (models.Dimensions, error)
	URL(image string) string
}

// FSResolver reads image headers from a file system rooted at the asset base location.
type FSResolver struct {
	fsys    fs.FS
	baseURL string
}

func NewFSResolver(fsys fs.FS, baseURL string) *FSResolver {
	return &FSResolver{
		fsys:    fsys,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (r *FSResolver) Resolve(ctx context.Context, name string) (models.Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return models.Dimensions{}, err
	}
	if !fs.ValidPath(name) {
		return models.Dimensions{}, fmt.Errorf("invalid asset path: %w", fs.ErrInvalid)
	}

	f, err := r.fsys.Open(name)
	if err != nil {
		return models.Dimensions{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return models.Dimensions{}, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return models.Dimensions{}, fmt.Errorf("%s image has no pixels (%dx%d)", format, cfg.Width, cfg.Height)
	}

	return models.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

func (r *FSResolver) URL(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return r.baseURL + "/" + strings.Join(parts, "/")
}
