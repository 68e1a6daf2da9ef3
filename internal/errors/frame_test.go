package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataFormatError(t *testing.T) {
	err := NewDataFormatError("frame list is empty", nil)

	assert.True(t, IsDataFormat(err))
	assert.False(t, IsAssetResolution(err))
	assert.Equal(t, "invalid frame data: frame list is empty", err.Error())

	wrapped := fmt.Errorf("start session: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidFrameData))

	var dfe *DataFormatError
	assert.True(t, errors.As(wrapped, &dfe))
	assert.Equal(t, "frame list is empty", dfe.Reason)
}

func TestDataFormatErrorWithFields(t *testing.T) {
	err := NewDataFormatError("frame definition is invalid", nil)
	err.Fields = ValidationErrors{*NewValidationError("frames[0].image", "is required", "")}

	assert.Contains(t, err.Error(), "frames[0].image is required")
}

func TestAssetError(t *testing.T) {
	err := &AssetError{Image: "missing.png", FrameIndex: 2, Err: fs.ErrNotExist}

	assert.True(t, IsAssetResolution(err))
	assert.False(t, IsDataFormat(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), `"missing.png"`)
	assert.Contains(t, err.Error(), "frame 3")
}
