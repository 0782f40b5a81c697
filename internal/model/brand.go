package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BrandStatus is one kanban column.
type BrandStatus struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Order     int       `gorm:"column:order;not null" json:"order"`
	Color     string    `gorm:"not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *BrandStatus) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	return nil
}

type Brand struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description *string         `json:"description"`
	StatusID    string          `gorm:"type:uuid;not null;index" json:"status_id"`
	Responsible *string         `json:"responsible"`
	Value       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	Deadline    *datatypes.Date `json:"deadline"`
	Order       int             `gorm:"column:order;not null" json:"order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Status      *BrandStatus    `gorm:"foreignKey:StatusID" json:"status,omitempty"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	newID(&b.ID)
	return nil
}

// BrandHistory is an append-only record of one status change. FromStatusID
// is nil for the row written when the brand is created. History outlives
// the statuses it names, so no foreign keys are migrated for it.
type BrandHistory struct {
	ID           string       `gorm:"type:uuid;primaryKey" json:"id"`
	BrandID      string       `gorm:"type:uuid;not null;index" json:"brand_id"`
	FromStatusID *string      `gorm:"type:uuid" json:"from_status_id"`
	ToStatusID   string       `gorm:"type:uuid;not null" json:"to_status_id"`
	MovedAt      time.Time    `gorm:"not null" json:"moved_at"`
	MovedBy      *string      `json:"moved_by"`
	FromStatus   *BrandStatus `gorm:"foreignKey:FromStatusID;-:migration" json:"from_status,omitempty"`
	ToStatus     *BrandStatus `gorm:"foreignKey:ToStatusID;-:migration" json:"to_status,omitempty"`
}

func (BrandHistory) TableName() string { return "brand_history" }

func (h *BrandHistory) BeforeCreate(tx *gorm.DB) error {
	newID(&h.ID)
	return nil
}
