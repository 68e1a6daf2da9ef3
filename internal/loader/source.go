package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "github.com/SAP-F-2025/frame-player/internal/errors"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
)

// DataFileName is the frame definition file inside an asset bundle.
const DataFileName = "data.json"

// Source supplies a raw frame definition list together with the assets it refers to.
type Source interface {
	// Key identifies the asset bundle, used to scope cached dimensions.
	Key() string
	Load(ctx context.Context) ([]byte, error)
	Assets() fs.FS
}

// ===== DIRECTORY =====

// DirSource reads data.json and images from a directory on disk.
type DirSource struct {
	dir  string
	fsys fs.FS
}

func NewDirSource(dir string) (*DirSource, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve asset dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("asset dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset dir %s is not a directory", abs)
	}
	return &DirSource{dir: abs, fsys: os.DirFS(abs)}, nil
}

func (s *DirSource) Key() string { return "dir:" + s.dir }

func (s *DirSource) Load(ctx context.Context) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, DataFileName)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewDataFormatError("could not find "+DataFileName+" in the asset directory", err)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", DataFileName, err)
	}
	return data, nil
}

func (s *DirSource) Assets() fs.FS { return s.fsys }

// ===== ZIP BUNDLE =====

// ZipSource reads an uploaded zip archive holding data.json and its images.
// data.json may sit at the archive root or inside a single top-level folder.
type ZipSource struct {
	key  string
	root fs.FS
}

func NewZipSource(data []byte) (*ZipSource, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperrors.NewDataFormatError("upload is not a valid zip archive", err)
	}

	root, err := bundleRoot(zr)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	return &ZipSource{
		key:  "zip:" + hex.EncodeToString(sum[:12]),
		root: root,
	}, nil
}

func bundleRoot(zr *zip.Reader) (fs.FS, error) {
	var candidates []string
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, "./")
		if path.Base(name) != DataFileName || strings.HasPrefix(name, "__MACOSX/") {
			continue
		}
		candidates = append(candidates, path.Dir(name))
	}

	switch {
	case len(candidates) == 0:
		return nil, apperrors.NewDataFormatError("zip archive does not contain "+DataFileName, nil)
	case len(candidates) > 1:
		return nil, apperrors.NewDataFormatError("zip archive contains more than one "+DataFileName, nil)
	}

	dir := candidates[0]
	if dir == "." {
		return zr, nil
	}
	if strings.Contains(dir, "/") {
		return nil, apperrors.NewDataFormatError(DataFileName+" must be at the archive root or in a single top-level folder", nil)
	}
	return fs.Sub(zr, dir)
}

func (s *ZipSource) Key() string { return s.key }

func (s *ZipSource) Load(ctx context.Context) ([]byte, error) {
	data, err := fs.ReadFile(s.root, DataFileName)
	if err != nil {
		return nil, fmt.Errorf("read %s from zip: %w", DataFileName, err)
	}
	return data, nil
}

func (s *ZipSource) Assets() fs.FS { return s.root }

// ===== FRAME SET REPOSITORY =====

// FrameSetSource loads a stored frame set; its images live in the shared asset directory.
type FrameSetSource struct {
	name   string
	repo   repositories.FrameSetRepository
	assets *DirSource
}

func NewFrameSetSource(name string, repo repositories.FrameSetRepository, assets *DirSource) *FrameSetSource {
	return &FrameSetSource{name: name, repo: repo, assets: assets}
}

func (s *FrameSetSource) Key() string { return s.assets.Key() }

func (s *FrameSetSource) Load(ctx context.Context) ([]byte, error) {
	set, err := s.repo.GetByName(ctx, nil, s.name)
	if err != nil {
		return nil, err
	}
	return []byte(set.Definition), nil
}

func (s *FrameSetSource) Assets() fs.FS { return s.assets.Assets() }
