package models

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingList is a shared shopping list for a family event. CreatorID
// never changes after creation; any authenticated user who knows the
// list id may read it and edit its items.
type ShoppingList struct {
	BaseModel
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	EventType   *string    `json:"eventType,omitempty" gorm:"type:varchar(50)"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	CreatorID   uuid.UUID  `json:"creatorID" gorm:"type:uuid;not null;index"`

	Creator User       `json:"-" gorm:"foreignKey:CreatorID;references:ID"`
	Items   []ListItem `json:"-" gorm:"foreignKey:ListID"`
}

func (ShoppingList) TableName() string {
	return "shopping_lists"
}
