package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbtypes "github.com/sitecrm/sitecrm-backend/pkg/db/types"
	"github.com/sitecrm/sitecrm-backend/pkg/types"
)

// FieldValueEntry pairs a custom field id with the value a product holds
// for it. Entries are kept in canonical field order at read time; the order
// is not durable in storage and the reorder sweep repairs it.
type FieldValueEntry struct {
	FieldID uuid.UUID        `json:"fieldId"`
	Value   types.FieldValue `json:"value"`
}

// Product is one catalog entry bound to a form.
type Product struct {
	ID         uuid.UUID                              `gorm:"column:id;type:uuid;primaryKey"`
	Category   string                                 `gorm:"column:category;not null;index"`
	Name       string                                 `gorm:"column:name;not null"`
	Type       string                                 `gorm:"column:product_type;not null"`
	FormID     *uuid.UUID                             `gorm:"column:form_id;type:uuid"`
	Suppliers  dbtypes.UUIDArray                      `gorm:"column:suppliers"`
	CustomData datatypes.JSONType[[]FieldValueEntry]  `gorm:"column:custom_data"`
	CreatedAt  time.Time                              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                              `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
