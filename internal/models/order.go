// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"      // waiting for a provider
	OrderStatusAccepted  OrderStatus = "accepted"  // claimed by exactly one provider
	OrderStatusLive      OrderStatus = "live"      // session in progress
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusAccepted, OrderStatusLive,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves this status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// OrderStatusMeta is the display metadata for a status badge.
type OrderStatusMeta struct {
	Label string `json:"label"`
	Badge string `json:"badge"` // blue | amber | red | green | gray
}

var orderStatusMeta = map[OrderStatus]OrderStatusMeta{
	OrderStatusOpen:      {Label: "Open", Badge: "blue"},
	OrderStatusAccepted:  {Label: "Accepted", Badge: "amber"},
	OrderStatusLive:      {Label: "Live", Badge: "red"},
	OrderStatusCompleted: {Label: "Completed", Badge: "green"},
	OrderStatusCancelled: {Label: "Cancelled", Badge: "gray"},
}

func (s OrderStatus) Meta() OrderStatusMeta {
	if m, ok := orderStatusMeta[s]; ok {
		return m
	}
	return OrderStatusMeta{Label: string(s), Badge: "gray"}
}

type OrderCategory string

const (
	CategoryExplore    OrderCategory = "explore"    // go look at a place
	CategoryVerify     OrderCategory = "verify"     // check an item/listing
	CategoryAssistance OrderCategory = "assistance" // hands-on help on site
	CategoryOther      OrderCategory = "other"
)

func (c OrderCategory) Valid() bool {
	switch c {
	case CategoryExplore, CategoryVerify, CategoryAssistance, CategoryOther:
		return true
	}
	return false
}

// Order is a customer's request for live on-location assistance.
type Order struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	CustomerID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"customer_id"`
	AssignedProviderID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_provider_id"`

	LocationText string        `gorm:"type:text;not null" json:"location_text"`
	Category     OrderCategory `gorm:"type:varchar(20);not null" json:"category"`
	Description  string        `gorm:"type:text;not null" json:"description"`

	PreferredTimeText  string   `gorm:"type:text" json:"preferred_time_text,omitempty"`
	BudgetUSD          *float64 `json:"budget_usd"`
	DurationMinutes    *int     `json:"duration_minutes"`
	LanguagePreference string   `gorm:"type:varchar(60)" json:"language_preference,omitempty"`

	Status OrderStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer         *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	AssignedProvider *User `gorm:"foreignKey:AssignedProviderID" json:"assigned_provider,omitempty"`
}
