package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/xamad/smartfridge/internal/database"
	"github.com/xamad/smartfridge/internal/models"
)

// ShoppingHandler handles shopping list endpoints
type ShoppingHandler struct {
	db *database.DB
}

// NewShoppingHandler creates a new shopping handler
func NewShoppingHandler(db *database.DB) *ShoppingHandler {
	return &ShoppingHandler{db: db}
}

// GetShoppingList returns all unpurchased shopping list items
func (h *ShoppingHandler) GetShoppingList(c *fiber.Ctx) error {
	items, err := h.db.ListShoppingItems(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to fetch shopping list")
	}
	return Success(c, fiber.Map{
		"shopping_list": items,
		"total_items":   len(items),
	})
}

// CreateShoppingItem adds a manual entry to the shopping list
func (h *ShoppingHandler) CreateShoppingItem(c *fiber.Ctx) error {
	var req models.CreateShoppingItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == nil || *req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	priority := "normal"
	if req.Priority != nil && *req.Priority != "" {
		priority = *req.Priority
	}

	item, err := h.db.CreateShoppingItem(c.Context(), req.Barcode, req.Name, req.Quantity, priority, false)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create shopping item")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: item})
}

// DeleteShoppingItem removes an entry from the shopping list
func (h *ShoppingHandler) DeleteShoppingItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	if err := h.db.DeleteShoppingItem(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrShoppingItemNotFound) {
			return Error(c, fiber.StatusNotFound, "shopping item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete shopping item")
	}

	return SuccessMessage(c, "shopping item deleted")
}
