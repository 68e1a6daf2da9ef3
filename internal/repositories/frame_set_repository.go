package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type FrameSetFilters struct {
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "name"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// FrameSetRepository stores named frame definition lists
type FrameSetRepository interface {
	Create(ctx context.Context, tx *gorm.DB, set *models.FrameSet) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.FrameSet, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.FrameSet, error)
	Update(ctx context.Context, tx *gorm.DB, set *models.FrameSet) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error // Soft delete

	List(ctx context.Context, tx *gorm.DB, filters FrameSetFilters) ([]*models.FrameSet, int64, error)
	ExistsByName(ctx context.Context, tx *gorm.DB, name string, excludeID *uint) (bool, error)
}

// IsNotFoundError reports whether err means the record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
