package invoices

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	StatusIssued InvoiceStatus = "ISSUED"
	StatusVoid   InvoiceStatus = "VOID"
)

// Invoice is the fiscal record for a booking transaction. Invoices are never
// deleted: cancelling the underlying reservations flips the status to VOID.
type Invoice struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string        `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Status    InvoiceStatus `gorm:"type:varchar(10);default:'ISSUED';not null" json:"status"`
	Subtotal  float64       `gorm:"not null" json:"subtotal"`
	TaxAmount float64       `gorm:"not null" json:"tax_amount"`
	Total     float64       `gorm:"not null" json:"total"`
	Currency  string        `gorm:"type:varchar(3);not null" json:"currency"`
	// PaymentMethod is free-form ("WEB", "EFECTIVO", a partner channel name).
	PaymentMethod string     `gorm:"type:varchar(30);not null;default:'WEB'" json:"payment_method"`
	IssuedAt      time.Time  `gorm:"not null" json:"issued_at"`
	VoidedAt      *time.Time `json:"voided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
}

// TableName sets the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceLine is one priced item on an invoice. Lines are ordered by LineNo
// and keep a denormalized LineTotal so the document is self-contained.
type InvoiceLine struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	LineNo      int       `gorm:"not null" json:"line_no"`
	Description string    `gorm:"type:varchar(300);not null" json:"description"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	LineTotal   float64   `gorm:"not null" json:"line_total"`
}

// TableName sets the table name for InvoiceLine
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// InvoiceReservation links an invoice to the reservations it covers. A cart
// checkout produces one invoice spanning several reservations.
type InvoiceReservation struct {
	InvoiceID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"invoice_id"`
	ReservationID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"reservation_id"`
}

// TableName sets the table name for InvoiceReservation
func (InvoiceReservation) TableName() string {
	return "invoice_reservations"
}
