package models

import "github.com/google/uuid"

type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "PENDING"
	ItemStatusAssigned  ItemStatus = "ASSIGNED"
	ItemStatusPurchased ItemStatus = "PURCHASED"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusAssigned, ItemStatusPurchased:
		return true
	default:
		return false
	}
}

const DefaultUnit = "pcs"

// ListItem is one entry on a shopping list. Outside of explicit status
// overrides via the update endpoint, PENDING implies no assignee and
// ASSIGNED implies an assignee; claim and purchase toggles maintain
// that pairing.
type ListItem struct {
	BaseModel
	ListID         uuid.UUID  `json:"listID" gorm:"type:uuid;not null;index"`
	Name           string     `json:"name" gorm:"type:varchar(255);not null"`
	Quantity       int        `json:"quantity" gorm:"not null;default:1"`
	Unit           string     `json:"unit" gorm:"type:varchar(50);not null;default:'pcs'"`
	Category       *string    `json:"category,omitempty" gorm:"type:varchar(100)"`
	Status         ItemStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Notes          *string    `json:"notes,omitempty" gorm:"type:text"`
	AssignedUserID *uuid.UUID `json:"assignedUserID,omitempty" gorm:"type:uuid;index"`

	List         ShoppingList `json:"-" gorm:"foreignKey:ListID;references:ID;constraint:OnDelete:CASCADE"`
	AssignedUser *User        `json:"-" gorm:"foreignKey:AssignedUserID;references:ID"`
}

func (ListItem) TableName() string {
	return "list_items"
}
