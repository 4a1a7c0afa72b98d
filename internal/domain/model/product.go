package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// SpecDoc is the optional schema-less spec blob attached to a product.
// Opaque key-value document, outside the core consistency guarantees.
type SpecDoc map[string]any

func (s SpecDoc) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SpecDoc) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported type for SpecDoc")
	}
	return json.Unmarshal(b, s)
}

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"not null;type:varchar(100)"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Stock       uint            `gorm:"not null;type:int"`
	CategoryID  *uint           `gorm:"index"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	IsActive    bool            `gorm:"not null;default:true"`
	Specs       SpecDoc         `gorm:"type:jsonb"`
	OrderItems  []OrderItem     `gorm:"foreignKey:ProductID"`
	BaseModel
}
