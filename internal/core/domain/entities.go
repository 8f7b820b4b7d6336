// internal/core/domain/entities.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is a tenant-scoped product grouping
type Category struct {
	ID          int64     `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate performs domain validation on the category
func (c *Category) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("name exceeds 100 characters")
	}
	return nil
}

// Supplier is a tenant-scoped goods supplier
type Supplier struct {
	ID        int64     `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate performs domain validation on the supplier
func (s *Supplier) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Name) > 150 {
		return fmt.Errorf("name exceeds 150 characters")
	}
	if len(s.Phone) > 20 {
		return fmt.Errorf("phone exceeds 20 characters")
	}
	return nil
}

// Product is a tenant-scoped stock item. SKU is unique per tenant; category
// and supplier references are optional.
type Product struct {
	ID           int64           `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Description  string          `json:"description,omitempty"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	SupplierID   *int64          `json:"supplier_id,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	ReorderLevel int             `json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Name) > 150 {
		return fmt.Errorf("name exceeds 150 characters")
	}
	if p.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if len(p.SKU) > 100 {
		return fmt.Errorf("sku exceeds 100 characters")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	return nil
}

// NeedsReorder reports whether the on-hand quantity has dropped to the
// reorder threshold.
func (p *Product) NeedsReorder() bool {
	return p.ReorderLevel > 0 && p.Quantity <= p.ReorderLevel
}
