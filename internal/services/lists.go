package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/famcart/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListService struct {
	DB *gorm.DB
}

func NewListService(db *gorm.DB) *ListService {
	return &ListService{DB: db}
}

type CreateListInput struct {
	Title       string
	Description *string
	EventType   *string
	EventDate   *time.Time
}

type UpdateListInput struct {
	Title       *string
	Description *string
	EventType   *string
	EventDate   *time.Time
	// EventDateSet distinguishes "clear the date" (set, nil value)
	// from "leave it alone" (unset).
	EventDateSet bool
}

// ListResponse is a list row with its creator summary attached.
type ListResponse struct {
	models.ShoppingList
	Creator models.UserSummary `json:"creator"`
}

type ItemCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Assigned  int `json:"assigned"`
	Purchased int `json:"purchased"`
	MyItems   int `json:"myItems"`
}

type ListSummary struct {
	models.ShoppingList
	Creator    models.UserSummary `json:"creator"`
	IsOwner    bool               `json:"isOwner"`
	ItemCounts ItemCounts         `json:"itemCounts"`
}

type ListDetail struct {
	models.ShoppingList
	Creator models.UserSummary `json:"creator"`
	IsOwner bool               `json:"isOwner"`
	Items   []ItemView         `json:"items"`
}

func (s *ListService) Create(ctx context.Context, actor *models.User, in CreateListInput) (*ListResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}

	list := models.ShoppingList{
		Title:       title,
		Description: trimToNil(in.Description),
		EventType:   trimToNil(in.EventType),
		EventDate:   in.EventDate,
		CreatorID:   actor.ID,
	}

	if err := s.DB.WithContext(ctx).Create(&list).Error; err != nil {
		return nil, err
	}

	return &ListResponse{ShoppingList: list, Creator: actor.Summary()}, nil
}

// Update applies a partial patch to a list's metadata. There is no
// ownership check: any authenticated user may edit any list.
func (s *ListService) Update(ctx context.Context, actor *models.User, listID uuid.UUID, in UpdateListInput) (*ListResponse, error) {
	var list models.ShoppingList
	if err := s.DB.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "shopping list"}
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, &ValidationError{Field: "title", Message: "title cannot be empty"}
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = trimToNil(in.Description)
	}
	if in.EventType != nil {
		updates["event_type"] = trimToNil(in.EventType)
	}
	if in.EventDateSet {
		updates["event_date"] = in.EventDate
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&list).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.DB.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		return nil, err
	}

	var creator models.User
	if err := s.DB.WithContext(ctx).First(&creator, "id = ?", list.CreatorID).Error; err != nil {
		return nil, err
	}

	return &ListResponse{ShoppingList: list, Creator: creator.Summary()}, nil
}

// Delete removes a list and all of its items. Creator only.
func (s *ListService) Delete(ctx context.Context, actor *models.User, listID uuid.UUID) error {
	var list models.ShoppingList
	if err := s.DB.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "shopping list"}
		}
		return err
	}

	if !CanDeleteList(actor.ID, &list) {
		return &ForbiddenError{Message: "only the list creator can delete a list"}
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", listID).Delete(&models.ListItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ShoppingList{}, "id = ?", listID).Error
	})
}

// Summaries returns every list the actor created or holds an assigned
// item on, newest-updated first, with per-list item counts.
func (s *ListService) Summaries(ctx context.Context, actor *models.User) ([]ListSummary, error) {
	var lists []models.ShoppingList
	err := s.DB.WithContext(ctx).
		Preload("Creator").
		Preload("Items").
		Where("creator_id = ? OR EXISTS (SELECT 1 FROM list_items WHERE list_items.list_id = shopping_lists.id AND list_items.assigned_user_id = ?)", actor.ID, actor.ID).
		Order("updated_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ListSummary, 0, len(lists))
	for _, list := range lists {
		summaries = append(summaries, ListSummary{
			ShoppingList: list,
			Creator:      list.Creator.Summary(),
			IsOwner:      list.CreatorID == actor.ID,
			ItemCounts:   countItems(list.Items, actor.ID),
		})
	}

	return summaries, nil
}

func countItems(items []models.ListItem, actorID uuid.UUID) ItemCounts {
	counts := ItemCounts{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.ItemStatusPending:
			counts.Pending++
		case models.ItemStatusAssigned:
			counts.Assigned++
		case models.ItemStatusPurchased:
			counts.Purchased++
		}
		if item.AssignedUserID != nil && *item.AssignedUserID == actorID {
			counts.MyItems++
		}
	}
	return counts
}

// Detail returns a list with its items, newest first. Any authenticated
// user who knows the id may view it.
func (s *ListService) Detail(ctx context.Context, actor *models.User, listID uuid.UUID) (*ListDetail, error) {
	var list models.ShoppingList
	err := s.DB.WithContext(ctx).
		Preload("Creator").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Items.AssignedUser").
		First(&list, "id = ?", listID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "shopping list"}
		}
		return nil, err
	}

	items := make([]ItemView, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, newItemView(item))
	}

	return &ListDetail{
		ShoppingList: list,
		Creator:      list.Creator.Summary(),
		IsOwner:      list.CreatorID == actor.ID,
		Items:        items,
	}, nil
}

func trimToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
