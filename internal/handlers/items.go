package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/famcart/backend/internal/middleware"
	"github.com/famcart/backend/internal/models"
	"github.com/famcart/backend/internal/services"
	"github.com/famcart/backend/pkg/logger"
	"github.com/famcart/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ItemsHandler struct {
	Items *services.ItemService
}

func NewItemsHandler(items *services.ItemService) *ItemsHandler {
	return &ItemsHandler{Items: items}
}

func (h *ItemsHandler) pathIDs(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	listID, err := parseUUID(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	itemID, err := parseUUID(c.Params("itemId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return listID, itemID, nil
}

func (h *ItemsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	items, err := h.Items.List(c.Context(), listID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"items": items})
}

type createItemRequest struct {
	Name     string  `json:"name"`
	Quantity *int    `json:"quantity"`
	Unit     *string `json:"unit"`
	Category *string `json:"category"`
	Notes    *string `json:"notes"`
}

func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	var req createItemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.Items.Create(c.Context(), currentUser, listID, services.CreateItemInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Category: req.Category,
		Notes:    req.Notes,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "item_created", map[string]interface{}{
		"list_id": listID.String(),
		"item_id": item.ID.String(),
		"name":    item.Name,
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"item": item})
}

type updateItemRequest struct {
	Name           *string            `json:"name"`
	Quantity       *int               `json:"quantity"`
	Unit           *string            `json:"unit"`
	Category       *string            `json:"category"`
	Status         *models.ItemStatus `json:"status"`
	Notes          *string            `json:"notes"`
	AssignedUserID json.RawMessage    `json:"assignedUserID"`
}

func (h *ItemsHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, itemID, err := h.pathIDs(c)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list or item id")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	in := services.UpdateItemInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Category: req.Category,
		Notes:    req.Notes,
		Status:   req.Status,
	}

	// assignedUserID distinguishes null (clear) from absent (keep).
	if len(req.AssignedUserID) > 0 {
		in.AssignedUserIDSet = true
		if !bytes.Equal(req.AssignedUserID, []byte("null")) {
			var raw string
			if err := json.Unmarshal(req.AssignedUserID, &raw); err != nil {
				return utils.Error(c, fiber.StatusBadRequest, "invalid assignedUserID")
			}
			assigneeID, err := parseUUID(raw)
			if err != nil {
				return utils.Error(c, fiber.StatusBadRequest, "invalid assignedUserID")
			}
			in.AssignedUserID = &assigneeID
		}
	}

	item, err := h.Items.Update(c.Context(), currentUser, listID, itemID, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"item": item})
}

func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, itemID, err := h.pathIDs(c)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list or item id")
	}

	if err := h.Items.Delete(c.Context(), currentUser, listID, itemID); err != nil {
		return respondServiceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "item_deleted", map[string]interface{}{
		"list_id": listID.String(),
		"item_id": itemID.String(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"success": true})
}

func (h *ItemsHandler) Claim(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, itemID, err := h.pathIDs(c)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list or item id")
	}

	item, claimed, err := h.Items.ClaimToggle(c.Context(), currentUser, listID, itemID)
	if err != nil {
		return respondServiceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "item_claim_toggled", map[string]interface{}{
		"list_id": listID.String(),
		"item_id": itemID.String(),
		"claimed": claimed,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"item": item, "claimed": claimed})
}

func (h *ItemsHandler) Purchase(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, itemID, err := h.pathIDs(c)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list or item id")
	}

	item, purchased, err := h.Items.PurchaseToggle(c.Context(), currentUser, listID, itemID)
	if err != nil {
		return respondServiceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "item_purchase_toggled", map[string]interface{}{
		"list_id":   listID.String(),
		"item_id":   itemID.String(),
		"purchased": purchased,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"item": item, "purchased": purchased})
}
