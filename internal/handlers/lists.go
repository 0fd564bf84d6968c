package handlers

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/famcart/backend/internal/middleware"
	"github.com/famcart/backend/internal/services"
	"github.com/famcart/backend/pkg/logger"
	"github.com/famcart/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type ListsHandler struct {
	Lists *services.ListService
}

func NewListsHandler(lists *services.ListService) *ListsHandler {
	return &ListsHandler{Lists: lists}
}

type createListRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EventType   *string `json:"eventType"`
	EventDate   *string `json:"eventDate"`
}

func (h *ListsHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createListRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	eventDate, ok := parseEventDate(req.EventDate)
	if !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid eventDate")
	}

	list, err := h.Lists.Create(c.Context(), currentUser, services.CreateListInput{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		EventDate:   eventDate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "list_created", map[string]interface{}{
		"list_id": list.ID.String(),
		"title":   list.Title,
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"list": list})
}

func (h *ListsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summaries, err := h.Lists.Summaries(c.Context(), currentUser)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"lists": summaries})
}

func (h *ListsHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	detail, err := h.Lists.Detail(c.Context(), currentUser, listID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"list": detail})
}

type updateListRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	EventType   *string         `json:"eventType"`
	EventDate   json.RawMessage `json:"eventDate"`
}

func (h *ListsHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	var req updateListRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	in := services.UpdateListInput{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
	}

	if len(req.EventDate) > 0 {
		in.EventDateSet = true
		if !bytes.Equal(req.EventDate, []byte("null")) {
			var raw string
			if err := json.Unmarshal(req.EventDate, &raw); err != nil {
				return utils.Error(c, fiber.StatusBadRequest, "invalid eventDate")
			}
			eventDate, ok := parseEventDate(&raw)
			if !ok {
				return utils.Error(c, fiber.StatusBadRequest, "invalid eventDate")
			}
			in.EventDate = eventDate
		}
	}

	list, err := h.Lists.Update(c.Context(), currentUser, listID, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"list": list})
}

func (h *ListsHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	listID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	if err := h.Lists.Delete(c.Context(), currentUser, listID); err != nil {
		return respondServiceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "list_deleted", map[string]interface{}{
		"list_id": listID.String(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"success": true})
}

// parseEventDate accepts RFC 3339 timestamps and bare dates. The false
// return marks an unparseable value; a nil date with true means the
// field was absent or blank.
func parseEventDate(value *string) (*time.Time, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	if parsed, err := time.Parse(time.RFC3339, *value); err == nil {
		return &parsed, true
	}
	if parsed, err := time.Parse("2006-01-02", *value); err == nil {
		return &parsed, true
	}
	return nil, false
}
