package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
	"gorm.io/gorm"
)

type FrameSetPostgreSQL struct {
	db *gorm.DB
}

func NewFrameSetPostgreSQL(db *gorm.DB) repositories.FrameSetRepository {
	return &FrameSetPostgreSQL{db: db}
}

func (f FrameSetPostgreSQL) Create(ctx context.Context, tx *gorm.DB, set *models.FrameSet) error {
	db := f.getDB(tx)
	return db.WithContext(ctx).Create(set).Error
}

func (f FrameSetPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.FrameSet, error) {
	db := f.getDB(tx)
	var set models.FrameSet
	if err := db.WithContext(ctx).First(&set, id).Error; err != nil {
		return nil, f.translate(err)
	}
	return &set, nil
}

func (f FrameSetPostgreSQL) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.FrameSet, error) {
	db := f.getDB(tx)
	var set models.FrameSet
	if err := db.WithContext(ctx).Where("name = ?", name).First(&set).Error; err != nil {
		return nil, f.translate(err)
	}
	return &set, nil
}

func (f FrameSetPostgreSQL) Update(ctx context.Context, tx *gorm.DB, set *models.FrameSet) error {
	db := f.getDB(tx)
	return db.WithContext(ctx).Save(set).Error
}

func (f FrameSetPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := f.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.FrameSet{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (f FrameSetPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.FrameSetFilters) ([]*models.FrameSet, int64, error) {
	db := f.getDB(tx)
	var sets []*models.FrameSet
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.FrameSet{})
	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = f.applyPaginationAndSort(query, filters)

	// the definition can be large; listings only need the metadata
	if err := query.Omit("definition").Find(&sets).Error; err != nil {
		return nil, 0, err
	}

	return sets, total, nil
}

func (f FrameSetPostgreSQL) ExistsByName(ctx context.Context, tx *gorm.DB, name string, excludeID *uint) (bool, error) {
	db := f.getDB(tx)
	var count int64
	query := db.WithContext(ctx).Model(&models.FrameSet{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (f FrameSetPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.FrameSetFilters) *gorm.DB {
	sortBy := "created_at"
	switch filters.SortBy {
	case "name", "created_at", "updated_at":
		sortBy = filters.SortBy
	}
	order := "desc"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

func (f FrameSetPostgreSQL) translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}

func (f FrameSetPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return f.db
}
