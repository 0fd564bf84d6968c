package models

import "github.com/google/uuid"

type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

type User struct {
	BaseModel
	Email         string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	Image         *string        `json:"image,omitempty" gorm:"type:text"`
	PasswordHash  *string        `json:"-" gorm:"type:text"`
	AuthProvider  AuthProvider   `json:"authProvider" gorm:"type:varchar(20);not null;default:'local'"`
	ExternalID    *string        `json:"-" gorm:"type:varchar(255);index"`
	Lists         []ShoppingList `json:"-" gorm:"foreignKey:CreatorID"`
	AssignedItems []ListItem     `json:"-" gorm:"foreignKey:AssignedUserID"`
}

// UserSummary is the shape embedded in list and item responses. It
// deliberately omits the email address.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Image: u.Image}
}
