package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	apperrors "github.com/SAP-F-2025/frame-player/internal/errors"
	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/SAP-F-2025/frame-player/internal/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Normalizer builds the immutable frame sequence of a session from raw definitions.
type Normalizer struct {
	validator   *validator.Validator
	logger      *slog.Logger
	concurrency int
	newID       func() string
}

type NormalizerOption func(*Normalizer)

// WithConcurrency caps how many images are resolved at once. n <= 0 means no limit.
func WithConcurrency(n int) NormalizerOption {
	return func(nz *Normalizer) { nz.concurrency = n }
}

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(fn func() string) NormalizerOption {
	return func(nz *Normalizer) { nz.newID = fn }
}

func NewNormalizer(v *validator.Validator, logger *slog.Logger, opts ...NormalizerOption) *Normalizer {
	nz := &Normalizer{
		validator: v,
		logger:    logger,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(nz)
	}
	return nz
}

// ParseFrames decodes and validates a raw frame definition list.
func (nz *Normalizer) ParseFrames(raw []byte) ([]models.RawFrame, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, apperrors.NewDataFormatError("frame definition is empty", nil)
	}
	if trimmed[0] != '[' {
		return nil, apperrors.NewDataFormatError("frame definition must be a JSON array of frames", nil)
	}

	var frames []models.RawFrame
	if err := json.Unmarshal(trimmed, &frames); err != nil {
		return nil, apperrors.NewDataFormatError("frame definition is not a list of frame objects", err)
	}
	if len(frames) == 0 {
		return nil, apperrors.NewDataFormatError("frame list is empty", nil)
	}

	if errs := nz.validator.ValidateFrames(frames); len(errs) > 0 {
		dfe := apperrors.NewDataFormatError("frame definition is invalid", nil)
		dfe.Fields = errs
		return nil, dfe
	}
	return frames, nil
}

// Normalize parses raw and resolves every frame image. Any failure aborts the whole
// batch; no partial frame list is ever returned.
func (nz *Normalizer) Normalize(ctx context.Context, raw []byte, resolver Resolver) ([]models.Frame, error) {
	rawFrames, err := nz.ParseFrames(raw)
	if err != nil {
		return nil, err
	}

	dims := make([]models.Dimensions, len(rawFrames))
	g, gctx := errgroup.WithContext(ctx)
	if nz.concurrency > 0 {
		g.SetLimit(nz.concurrency)
	}
	for i, rf := range rawFrames {
		g.Go(func() error {
			d, err := resolver.Resolve(gctx, rf.Image)
			if err != nil {
				return &apperrors.AssetError{Image: rf.Image, FrameIndex: i, Err: err}
			}
			dims[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		nz.logger.WarnContext(ctx, "Frame normalization aborted", "error", err)
		return nil, err
	}

	frames := make([]models.Frame, len(rawFrames))
	for i, rf := range rawFrames {
		frames[i] = nz.buildFrame(rf, dims[i], resolver.URL(rf.Image))
	}

	nz.logger.DebugContext(ctx, "Frames normalized", "frame_count", len(frames))
	return frames, nil
}

// buildFrame lays out hotspots first, then inputs, each in definition order.
func (nz *Normalizer) buildFrame(rf models.RawFrame, dims models.Dimensions, imageURL string) models.Frame {
	regions := make([]models.Region, 0, len(rf.Hotspots)+len(rf.Inputs))
	for _, h := range rf.Hotspots {
		regions = append(regions, models.Region{
			ID:    nz.newID(),
			Kind:  models.RegionHotspot,
			Box:   models.Box{X: h.X, Y: h.Y, W: h.W, H: h.H},
			Label: h.Label,
		})
	}
	for _, in := range rf.Inputs {
		regions = append(regions, models.Region{
			ID:       nz.newID(),
			Kind:     models.RegionInput,
			Box:      models.Box{X: in.X, Y: in.Y, W: in.W, H: in.H},
			Label:    in.Label,
			Expected: in.Expected,
		})
	}

	return models.Frame{
		ID:       nz.newID(),
		Image:    rf.Image,
		ImageURL: imageURL,
		Width:    dims.Width,
		Height:   dims.Height,
		Regions:  regions,
	}
}
