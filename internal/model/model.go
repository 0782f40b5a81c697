package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills an empty string primary key before insert.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// Product is owned by the catalog; questions may be scoped to one.
type Product struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Brand       string    `json:"brand"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Category    *string   `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return nil
}

type Customer struct {
	CustomerID       string    `gorm:"column:customer_id;type:uuid;primaryKey" json:"customer_id"`
	Name             string    `json:"name"`
	Phone            *string   `json:"phone,omitempty"`
	Email            string    `json:"email"`
	Address          *string   `json:"address,omitempty"`
	CPF              *string   `gorm:"column:cpf" json:"cpf,omitempty"`
	StripeCustomerID *string   `json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Customer) TableName() string { return "customer" }

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	newID(&c.CustomerID)
	return nil
}

type Box struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Theme       string    `gorm:"not null" json:"theme"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b *Box) BeforeCreate(tx *gorm.DB) error {
	newID(&b.ID)
	return nil
}

type Edition struct {
	EditionID string    `gorm:"column:edition_id;type:uuid;primaryKey" json:"edition_id"`
	Edition   string    `gorm:"column:edition;not null" json:"edition"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Edition) TableName() string { return "edition" }

func (e *Edition) BeforeCreate(tx *gorm.DB) error {
	newID(&e.EditionID)
	return nil
}

type Order struct {
	OrderID      string    `gorm:"column:order_id;type:uuid;primaryKey" json:"order_id"`
	InvoiceID    *string   `gorm:"type:uuid" json:"invoice_id,omitempty"`
	CustomerID   *string   `gorm:"type:uuid" json:"customer_id,omitempty"`
	Edition      *string   `json:"edition,omitempty"`
	Brand        *string   `json:"brand,omitempty"`
	Amount       *int64    `json:"amount,omitempty"`
	TrackingCode *string   `json:"tracking_code,omitempty"`
	TrackingURL  *string   `gorm:"column:tracking_url" json:"tracking_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Order) TableName() string { return "order" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	newID(&o.OrderID)
	return nil
}

// InvoiceStatusPaid marks invoices that count towards revenue.
const InvoiceStatusPaid = "paid"

// Invoice amounts are stored in cents.
type Invoice struct {
	InvoiceID      string    `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`
	CustomerID     *string   `gorm:"type:uuid" json:"customer_id,omitempty"`
	Amount         *int64    `json:"amount,omitempty"`
	Status         *string   `json:"status,omitempty"`
	PaymentMethod  *string   `json:"payment_method,omitempty"`
	LastCardNumber *string   `json:"last_card_number,omitempty"`
	InvoiceLink    *string   `json:"invoice_link,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Invoice) TableName() string { return "invoice" }

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	newID(&i.InvoiceID)
	return nil
}
