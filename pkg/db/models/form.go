package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/pkg/enums"
)

// FormField is the denormalized snapshot of a custom field embedded in a
// form. It may drift from the live registry entry; the snapshot is what a
// product of that category renders with.
type FormField struct {
	FieldID   uuid.UUID       `json:"fieldId"`
	Label     string          `json:"label"`
	FieldType enums.FieldType `json:"fieldType"`
	Options   []string        `json:"options,omitempty"`
	Prefix    *string         `json:"prefix,omitempty"`
	Suffix    *string         `json:"suffix,omitempty"`
	Order     int             `json:"order"`
}

// Form is a category-scoped template listing which custom fields a product
// of that category exposes.
type Form struct {
	ID        uuid.UUID                        `gorm:"column:id;type:uuid;primaryKey"`
	Category  string                           `gorm:"column:category;not null;index"`
	Name      string                           `gorm:"column:name;not null"`
	Type      string                           `gorm:"column:form_type;not null"`
	Fields    datatypes.JSONType[[]FormField]  `gorm:"column:fields"`
	CreatedAt time.Time                        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Form) TableName() string {
	return "forms"
}

func (f *Form) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
