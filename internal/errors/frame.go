package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFrameData marks a frame definition list that is missing, empty or malformed.
	ErrInvalidFrameData = errors.New("invalid frame data")
	// ErrAssetResolution marks an image whose dimensions could not be resolved.
	ErrAssetResolution = errors.New("asset resolution failed")
)

// DataFormatError describes why a raw frame definition list was rejected.
type DataFormatError struct {
	Reason string           `json:"reason"`
	Fields ValidationErrors `json:"fields,omitempty"`
	Err    error            `json:"-"`
}

func NewDataFormatError(reason string, err error) *DataFormatError {
	return &DataFormatError{Reason: reason, Err: err}
}

func (e *DataFormatError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidFrameData, e.Reason, e.Fields.Error())
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidFrameData, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidFrameData, e.Reason)
}

func (e *DataFormatError) Is(target error) bool { return target == ErrInvalidFrameData }

func (e *DataFormatError) Unwrap() error { return e.Err }

// AssetError reports the image that broke session construction.
type AssetError struct {
	Image      string `json:"image"`
	FrameIndex int    `json:"frame_index"`
	Err        error  `json:"-"`
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("could not load image %q (frame %d): %v", e.Image, e.FrameIndex+1, e.Err)
}

func (e *AssetError) Is(target error) bool { return target == ErrAssetResolution }

func (e *AssetError) Unwrap() error { return e.Err }

func IsDataFormat(err error) bool { return errors.Is(err, ErrInvalidFrameData) }

func IsAssetResolution(err error) bool { return errors.Is(err, ErrAssetResolution) }
