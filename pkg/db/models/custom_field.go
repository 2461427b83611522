package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/pkg/enums"
)

// CustomField is an admin-defined input descriptor for the catalog builder.
type CustomField struct {
	ID        uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	Label     string                     `gorm:"column:label;not null"`
	FieldType enums.FieldType            `gorm:"column:field_type;not null"`
	Options   datatypes.JSONSlice[string] `gorm:"column:options"`
	Prefix    *string                    `gorm:"column:prefix"`
	Suffix    *string                    `gorm:"column:suffix"`
	Order     int                        `gorm:"column:display_order;not null;default:0"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CustomField) TableName() string {
	return "custom_fields"
}

func (f *CustomField) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
