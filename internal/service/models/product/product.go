package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products by kind.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Section groups products by store section.
type Section struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product represents a sellable item.
type Product struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	CategoryID     int64            `json:"category_id"`
	SectionID      int64            `json:"section_id"`
	Cost           *decimal.Decimal `json:"cost,omitempty"`
	SellingPrice   decimal.Decimal  `json:"selling_price"`
	Availability   bool             `json:"availability"`
	Description    *string          `json:"description,omitempty"`
	BarCode        *string          `json:"bar_code,omitempty"`
	InitialStock   int              `json:"initial_stock"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	Images         *string          `json:"images,omitempty"`
	Category       *Category        `json:"category,omitempty"`
	Section        *Section         `json:"section,omitempty"`
}
