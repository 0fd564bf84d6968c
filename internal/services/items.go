package services

import (
	"context"
	"errors"
	"strings"

	"github.com/famcart/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Number of read/compute/compare-and-swap rounds a toggle attempts
// before giving up on a contended item.
const toggleAttempts = 3

type ItemService struct {
	DB *gorm.DB
}

func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{DB: db}
}

// ItemView is an item row with its assignee summary attached.
type ItemView struct {
	models.ListItem
	AssignedUser *models.UserSummary `json:"assignedUser,omitempty"`
}

func newItemView(item models.ListItem) ItemView {
	view := ItemView{ListItem: item}
	if item.AssignedUser != nil {
		summary := item.AssignedUser.Summary()
		view.AssignedUser = &summary
	}
	view.ListItem.AssignedUser = nil
	return view
}

type CreateItemInput struct {
	Name     string
	Quantity *int
	Unit     *string
	Category *string
	Notes    *string
}

type UpdateItemInput struct {
	Name     *string
	Quantity *int
	Unit     *string
	Category *string
	Notes    *string
	Status   *models.ItemStatus
	// AssignedUserID is only meaningful when AssignedUserIDSet is
	// true; a set-but-nil value clears the assignee.
	AssignedUserID    *uuid.UUID
	AssignedUserIDSet bool
}

// inferredStatus implements the implicit promote/demote rules for
// assignee edits. It only fires when the caller did not set status
// explicitly in the same patch: assigning a PENDING item promotes it to
// ASSIGNED, unassigning an ASSIGNED item demotes it to PENDING. Every
// other combination leaves the status alone, which is how an explicit
// status override can produce a PENDING item that still has an
// assignee.
func (in UpdateItemInput) inferredStatus(current models.ItemStatus) *models.ItemStatus {
	if in.Status != nil || !in.AssignedUserIDSet {
		return nil
	}
	if in.AssignedUserID != nil && current == models.ItemStatusPending {
		status := models.ItemStatusAssigned
		return &status
	}
	if in.AssignedUserID == nil && current == models.ItemStatusAssigned {
		status := models.ItemStatusPending
		return &status
	}
	return nil
}

// claimTransition computes the claim toggle for a non-purchased item.
// The returned flag is true iff the actor holds the item afterwards.
func claimTransition(item *models.ListItem, actorID uuid.UUID) (models.ItemStatus, *uuid.UUID, bool) {
	if item.AssignedUserID != nil && *item.AssignedUserID == actorID {
		return models.ItemStatusPending, nil, false
	}
	// Claiming overwrites any prior assignee.
	assignee := actorID
	return models.ItemStatusAssigned, &assignee, true
}

// purchaseTransition computes the purchase toggle. Purchasing an
// unassigned item records the purchaser as assignee; un-purchasing
// keeps the assignee and falls back to ASSIGNED or PENDING. The
// returned flag is true iff the item ends up PURCHASED.
func purchaseTransition(item *models.ListItem, actorID uuid.UUID) (models.ItemStatus, *uuid.UUID, bool) {
	if item.Status == models.ItemStatusPurchased {
		if item.AssignedUserID != nil {
			return models.ItemStatusAssigned, item.AssignedUserID, false
		}
		return models.ItemStatusPending, nil, false
	}
	if item.AssignedUserID == nil {
		assignee := actorID
		return models.ItemStatusPurchased, &assignee, true
	}
	return models.ItemStatusPurchased, item.AssignedUserID, true
}

func (s *ItemService) Create(ctx context.Context, actor *models.User, listID uuid.UUID, in CreateItemInput) (*ItemView, error) {
	if err := s.ensureListExists(ctx, listID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "item name is required"}
	}

	quantity := 1
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, &ValidationError{Field: "quantity", Message: "quantity cannot be negative"}
		}
		quantity = *in.Quantity
	}

	unit := models.DefaultUnit
	if in.Unit != nil {
		if trimmed := strings.TrimSpace(*in.Unit); trimmed != "" {
			unit = trimmed
		}
	}

	item := models.ListItem{
		ListID:   listID,
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
		Category: trimToNil(in.Category),
		Status:   models.ItemStatusPending,
		Notes:    trimToNil(in.Notes),
	}

	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}

	view := newItemView(item)
	return &view, nil
}

// List returns a list's items grouped for shopping: by status, then
// category, then insertion order.
func (s *ItemService) List(ctx context.Context, listID uuid.UUID) ([]ItemView, error) {
	if err := s.ensureListExists(ctx, listID); err != nil {
		return nil, err
	}

	var items []models.ListItem
	err := s.DB.WithContext(ctx).
		Preload("AssignedUser").
		Where("list_id = ?", listID).
		Order("status ASC, category ASC, created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, newItemView(item))
	}
	return views, nil
}

// Update applies a partial patch. Explicit field changes are collected
// first; the status inference rules then run only over what the caller
// left unset.
func (s *ItemService) Update(ctx context.Context, actor *models.User, listID, itemID uuid.UUID, in UpdateItemInput) (*ItemView, error) {
	item, err := s.getItem(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Message: "item name cannot be empty"}
		}
		updates["name"] = name
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, &ValidationError{Field: "quantity", Message: "quantity cannot be negative"}
		}
		updates["quantity"] = *in.Quantity
	}
	if in.Unit != nil {
		unit := strings.TrimSpace(*in.Unit)
		if unit == "" {
			unit = models.DefaultUnit
		}
		updates["unit"] = unit
	}
	if in.Category != nil {
		updates["category"] = trimToNil(in.Category)
	}
	if in.Notes != nil {
		updates["notes"] = trimToNil(in.Notes)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, &ValidationError{Field: "status", Message: "invalid item status"}
		}
		updates["status"] = *in.Status
	}
	if in.AssignedUserIDSet {
		if in.AssignedUserID != nil {
			var assignee models.User
			if err := s.DB.WithContext(ctx).First(&assignee, "id = ?", *in.AssignedUserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, &BadRequestError{Message: "invalid user to assign"}
				}
				return nil, err
			}
		}
		updates["assigned_user_id"] = in.AssignedUserID
	}

	if inferred := in.inferredStatus(item.Status); inferred != nil {
		updates["status"] = *inferred
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.getItemView(ctx, listID, itemID)
}

// ClaimToggle claims an item for the actor, or releases it when the
// actor already holds it. Purchased items cannot be claimed. The write
// is a compare-and-swap against the snapshot the toggle was computed
// from, so the reported flag always matches the persisted state.
func (s *ItemService) ClaimToggle(ctx context.Context, actor *models.User, listID, itemID uuid.UUID) (*ItemView, bool, error) {
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		item, err := s.getItem(ctx, listID, itemID)
		if err != nil {
			return nil, false, err
		}

		if item.Status == models.ItemStatusPurchased {
			return nil, false, &BadRequestError{Message: "cannot claim an item that has already been purchased"}
		}

		status, assignee, claimed := claimTransition(item, actor.ID)
		swapped, err := s.swapItemState(ctx, item, status, assignee)
		if err != nil {
			return nil, false, err
		}
		if swapped {
			view, err := s.getItemView(ctx, listID, itemID)
			if err != nil {
				return nil, false, err
			}
			return view, claimed, nil
		}
	}
	return nil, false, &BadRequestError{Message: "item was modified concurrently, please retry"}
}

// PurchaseToggle marks an item purchased or reverts it. Any
// authenticated user may toggle, regardless of who claimed the item.
func (s *ItemService) PurchaseToggle(ctx context.Context, actor *models.User, listID, itemID uuid.UUID) (*ItemView, bool, error) {
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		item, err := s.getItem(ctx, listID, itemID)
		if err != nil {
			return nil, false, err
		}

		status, assignee, purchased := purchaseTransition(item, actor.ID)
		swapped, err := s.swapItemState(ctx, item, status, assignee)
		if err != nil {
			return nil, false, err
		}
		if swapped {
			view, err := s.getItemView(ctx, listID, itemID)
			if err != nil {
				return nil, false, err
			}
			return view, purchased, nil
		}
	}
	return nil, false, &BadRequestError{Message: "item was modified concurrently, please retry"}
}

func (s *ItemService) Delete(ctx context.Context, actor *models.User, listID, itemID uuid.UUID) error {
	item, err := s.getItem(ctx, listID, itemID)
	if err != nil {
		return err
	}

	var list models.ShoppingList
	if err := s.DB.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "shopping list"}
		}
		return err
	}

	if !CanDeleteItem(actor.ID, &list, item) {
		return &ForbiddenError{Message: "only the list owner or the person who claimed this item can delete it"}
	}

	return s.DB.WithContext(ctx).Delete(&models.ListItem{}, "id = ?", itemID).Error
}

// swapItemState writes the computed toggle state, guarded by the
// snapshot's status and assignee. A false return means another writer
// got there first and the caller must recompute.
func (s *ItemService) swapItemState(ctx context.Context, snapshot *models.ListItem, status models.ItemStatus, assignee *uuid.UUID) (bool, error) {
	query := s.DB.WithContext(ctx).
		Model(&models.ListItem{}).
		Where("id = ? AND status = ?", snapshot.ID, snapshot.Status)
	if snapshot.AssignedUserID == nil {
		query = query.Where("assigned_user_id IS NULL")
	} else {
		query = query.Where("assigned_user_id = ?", *snapshot.AssignedUserID)
	}

	result := query.Updates(map[string]interface{}{
		"status":           status,
		"assigned_user_id": assignee,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *ItemService) ensureListExists(ctx context.Context, listID uuid.UUID) error {
	var list models.ShoppingList
	if err := s.DB.WithContext(ctx).Select("id").First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "shopping list"}
		}
		return err
	}
	return nil
}

func (s *ItemService) getItem(ctx context.Context, listID, itemID uuid.UUID) (*models.ListItem, error) {
	var item models.ListItem
	err := s.DB.WithContext(ctx).First(&item, "id = ? AND list_id = ?", itemID, listID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "item"}
		}
		return nil, err
	}
	return &item, nil
}

func (s *ItemService) getItemView(ctx context.Context, listID, itemID uuid.UUID) (*ItemView, error) {
	var item models.ListItem
	err := s.DB.WithContext(ctx).
		Preload("AssignedUser").
		First(&item, "id = ? AND list_id = ?", itemID, listID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "item"}
		}
		return nil, err
	}
	view := newItemView(item)
	return &view, nil
}
