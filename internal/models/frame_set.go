package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FrameSet is a named frame definition list stored in the database.
// Definition holds the same JSON array as data.json.
type FrameSet struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null;size:200;uniqueIndex" validate:"required,min=1,max=200"`
	Description *string        `json:"description" gorm:"type:text"`
	Definition  datatypes.JSON `json:"definition" gorm:"type:jsonb;not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (FrameSet) TableName() string {
	return "frame_sets"
}
