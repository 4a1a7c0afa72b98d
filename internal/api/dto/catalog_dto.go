package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductRequestDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
	CategoryID  *uint           `json:"categoryId"`
	IsActive    *bool           `json:"isActive"`
}

type ProductDTO struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        uint            `json:"stock"`
	CategoryID   *uint           `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	IsActive     bool            `json:"isActive"`
	Specs        map[string]any  `json:"specs,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type ProductSpecsDTO struct {
	Specs map[string]any `json:"specs"`
}

type CategoryRequestDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
