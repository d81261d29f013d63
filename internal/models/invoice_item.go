package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceItem is a billable line on an invoice.
type InvoiceItem struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	InvoiceID   string    `gorm:"type:varchar(36);index;not null" json:"invoice_id"`
	Description string    `gorm:"not null" json:"description"`
	Quantity    Money     `gorm:"type:decimal(10,2);default:1" json:"quantity"`
	UnitPrice   Money     `gorm:"type:decimal(10,2);default:0" json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// BeforeCreate assigns a UUID primary key.
func (i *InvoiceItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Total is quantity times unit price.
func (i *InvoiceItem) Total() Money {
	return NewMoneyFromDecimal(i.Quantity.Decimal.Mul(i.UnitPrice.Decimal))
}
