package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice belongs to a user and bills one of their clients.
// invoice_number is unique within the owning user, not globally.
type Invoice struct {
	ID            string         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        string         `gorm:"type:varchar(36);index:idx_invoices_user_number,unique;not null" json:"user_id"`
	ClientID      string         `gorm:"type:varchar(36);index;not null" json:"client_id"`
	InvoiceNumber string         `gorm:"index:idx_invoices_user_number,unique;not null" json:"invoice_number"`
	Status        string         `gorm:"default:'draft';index" json:"status"`
	IssueDate     time.Time      `json:"issue_date"`
	DueDate       time.Time      `gorm:"index" json:"due_date"`
	TaxRate       Money          `gorm:"type:decimal(10,2);default:0" json:"tax_rate"`
	Notes         string         `gorm:"type:text;default:''" json:"notes"`
	Items         []InvoiceItem  `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Client        *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Invoice) TableName() string {
	return "invoices"
}

// BeforeCreate assigns a UUID primary key.
func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Subtotal sums the line item totals.
func (i *Invoice) Subtotal() Money {
	sum := decimal.Zero
	for _, item := range i.Items {
		sum = sum.Add(item.Total().Decimal)
	}
	return NewMoneyFromDecimal(sum)
}

// TaxAmount applies the tax rate (percent) to the subtotal.
func (i *Invoice) TaxAmount() Money {
	rate := i.TaxRate.Decimal.Div(decimal.NewFromInt(100))
	return NewMoneyFromDecimal(i.Subtotal().Decimal.Mul(rate))
}

// TotalAmount is subtotal plus tax.
func (i *Invoice) TotalAmount() Money {
	return NewMoneyFromDecimal(i.Subtotal().Decimal.Add(i.TaxAmount().Decimal))
}
