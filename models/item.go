package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a saved catalog entry the invoice form can pull line items from.
// Rate is the default unit rate; the actual rate on an invoice row may
// differ.
type Item struct {
	Id          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate" gorm:"type:numeric(12,2)"`
	Active      bool    `json:"-"`
}

func (item *Item) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	item.Id = uuid.NewString()
	return
}
