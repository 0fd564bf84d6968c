package services

import (
	"github.com/famcart/backend/internal/models"
	"github.com/google/uuid"
)

// Authorization predicates for list and item mutations. Pure functions
// over (actor, list, item) so they can be checked without a store.
//
// List metadata updates and reads carry no ownership check at all: any
// authenticated user who knows the list id is treated as a family
// member. Only list deletion is reserved to the creator.

func IsListOwner(actorID uuid.UUID, list *models.ShoppingList) bool {
	return list.CreatorID == actorID
}

func CanDeleteList(actorID uuid.UUID, list *models.ShoppingList) bool {
	return IsListOwner(actorID, list)
}

// CanDeleteItem allows the list owner, the item's current assignee, or
// anyone when the item is unclaimed.
func CanDeleteItem(actorID uuid.UUID, list *models.ShoppingList, item *models.ListItem) bool {
	if IsListOwner(actorID, list) {
		return true
	}
	if item.AssignedUserID == nil {
		return true
	}
	return *item.AssignedUserID == actorID
}
