package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/xamad/smartfridge/internal/database"
	"github.com/xamad/smartfridge/internal/models"
	"github.com/xamad/smartfridge/internal/services"
)

// ProductHandler handles scan events and inventory management
type ProductHandler struct {
	db      *database.DB
	parser  *services.ReceiptParser
	storage *services.StorageService
}

// NewProductHandler creates a new product handler
func NewProductHandler(db *database.DB, parser *services.ReceiptParser, storage *services.StorageService) *ProductHandler {
	return &ProductHandler{db: db, parser: parser, storage: storage}
}

// HandleScan processes a barcode scan from the device. An "add" scan bumps
// the quantity of an active product or creates a new one; a "remove" scan
// decrements it and puts the barcode on the shopping list once it runs out.
func (h *ProductHandler) HandleScan(c *fiber.Ctx) error {
	var req models.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Barcode == "" {
		return Error(c, fiber.StatusBadRequest, "barcode is required")
	}
	if req.Action != models.ScanActionAdd && req.Action != models.ScanActionRemove {
		return Error(c, fiber.StatusBadRequest, "action must be 'add' or 'remove'")
	}

	if err := h.db.RecordScanEvent(c.Context(), req.Barcode, req.Action, req.Device); err != nil {
		log.Printf("Warning: failed to record scan event: %v", err)
	}

	switch req.Action {
	case models.ScanActionAdd:
		return h.scanAdd(c, &req)
	default:
		return h.scanRemove(c, &req)
	}
}

func (h *ProductHandler) scanAdd(c *fiber.Ctx, req *models.ScanRequest) error {
	product, err := h.db.GetActiveProductByBarcode(c.Context(), req.Barcode)
	if err != nil && !errors.Is(err, database.ErrProductNotFound) {
		return Error(c, fiber.StatusInternalServerError, "failed to look up product")
	}

	if product != nil {
		quantity, err := h.db.AdjustProductQuantity(c.Context(), product.ID, 1)
		if err != nil {
			return Error(c, fiber.StatusInternalServerError, "failed to update quantity")
		}
		h.clearShoppingEntry(c.Context(), req.Barcode)
		return Success(c, fiber.Map{
			"action":   "incremented",
			"product":  product.Name,
			"quantity": quantity,
		})
	}

	var expiryDate *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		if date, ok := h.parser.FindDate(*req.ExpiryDate); ok {
			expiryDate = &date
		}
	}

	created, err := h.db.CreateProduct(c.Context(), &models.Product{
		Barcode:    req.Barcode,
		Quantity:   1,
		ExpiryDate: expiryDate,
	})
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create product")
	}
	h.clearShoppingEntry(c.Context(), req.Barcode)

	return Success(c, fiber.Map{
		"action":  "created",
		"product": created,
	})
}

func (h *ProductHandler) scanRemove(c *fiber.Ctx, req *models.ScanRequest) error {
	product, err := h.db.GetActiveProductByBarcode(c.Context(), req.Barcode)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "no active product with this barcode")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to look up product")
	}

	if product.Quantity > 1 {
		quantity, err := h.db.AdjustProductQuantity(c.Context(), product.ID, -1)
		if err != nil {
			return Error(c, fiber.StatusInternalServerError, "failed to update quantity")
		}
		return Success(c, fiber.Map{
			"action":   "decremented",
			"quantity": quantity,
		})
	}

	if err := h.db.FinishProduct(c.Context(), product.ID); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to finish product")
	}
	h.deleteProductImage(c.Context(), product)

	// Last unit consumed: restock reminder, unless one is already pending
	name := restockName(product)
	exists, err := h.db.ShoppingItemExists(c.Context(), product.Barcode)
	if err != nil {
		log.Printf("Warning: failed to check shopping list: %v", err)
	} else if !exists {
		if _, err := h.db.CreateShoppingItem(c.Context(), product.Barcode, name, 1, "normal", true); err != nil {
			log.Printf("Warning: failed to add shopping list entry: %v", err)
		}
	}

	return Success(c, fiber.Map{
		"action":  "finished",
		"product": *name,
	})
}

// GetInventory returns all active products, soonest expiry first
func (h *ProductHandler) GetInventory(c *fiber.Ctx) error {
	products, err := h.db.ListActiveProducts(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to fetch inventory")
	}
	return Success(c, fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

// GetExpiring returns products expiring within the given number of days
func (h *ProductHandler) GetExpiring(c *fiber.Ctx) error {
	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return Error(c, fiber.StatusBadRequest, "days must be a non-negative integer")
		}
		days = parsed
	}

	products, err := h.db.ListExpiringProducts(c.Context(), days)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to fetch expiring products")
	}
	return Success(c, fiber.Map{
		"products": products,
		"count":    len(products),
		"days":     days,
	})
}

// CreateProduct adds a product from the web UI
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Barcode == "" && req.Name == nil {
		return Error(c, fiber.StatusBadRequest, "barcode or name is required")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product := &models.Product{
		Barcode:  req.Barcode,
		Name:     req.Name,
		Brand:    req.Brand,
		Category: req.Category,
		Quantity: req.Quantity,
	}
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		date, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
		}
		product.ExpiryDate = &date
	}

	created, err := h.db.CreateProduct(c.Context(), product)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create product")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: created})
}

// UpdateProduct applies a partial update to a product
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	var expiryDate *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		date, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
		}
		expiryDate = &date
	}

	updated, err := h.db.UpdateProduct(c.Context(), id, &req, expiryDate)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update product")
	}

	return Success(c, updated)
}

// DeleteProduct removes a product and its archived image
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.db.GetProductByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to fetch product")
	}

	if err := h.db.DeleteProduct(c.Context(), id); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete product")
	}
	h.deleteProductImage(c.Context(), product)

	return SuccessMessage(c, "product deleted")
}

// GetScanHistory returns the most recent scanner events
func (h *ProductHandler) GetScanHistory(c *fiber.Ctx) error {
	limit := 50
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 500 {
			return Error(c, fiber.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = parsed
	}

	events, err := h.db.ListRecentScanEvents(c.Context(), limit)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to fetch scan history")
	}
	return Success(c, fiber.Map{
		"events": events,
		"count":  len(events),
	})
}

// UploadProductImage archives a photo for a product and links it
func (h *ProductHandler) UploadProductImage(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "image storage not configured")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.db.GetProductByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to fetch product")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read upload")
	}
	defer file.Close()

	key := fmt.Sprintf("products/%s/%d%s", product.Barcode, time.Now().UnixNano(), fileExt(fileHeader.Filename))
	if err := h.storage.Upload(c.Context(), key, file, fileHeader.Size, contentType); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to archive image")
	}

	// The old image is unreachable once the key is replaced
	h.deleteProductImage(c.Context(), product)

	if err := h.db.SetProductImage(c.Context(), id, key); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to link image")
	}

	return Success(c, fiber.Map{"image_key": key})
}

// GetProductImage returns a short-lived download URL for a product's photo
func (h *ProductHandler) GetProductImage(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "image storage not configured")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.db.GetProductByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to fetch product")
	}

	if product.ImageKey == nil || *product.ImageKey == "" {
		return Error(c, fiber.StatusNotFound, "product has no image")
	}

	url, err := h.storage.GetPresignedURL(c.Context(), *product.ImageKey, 15*time.Minute)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate image URL")
	}

	return Success(c, fiber.Map{"url": url})
}

// restockName labels a shopping-list entry: the product name when one is
// known, the barcode otherwise. Entries must never be nameless.
func restockName(p *models.Product) *string {
	if p.Name != nil && *p.Name != "" {
		return p.Name
	}
	return &p.Barcode
}

func (h *ProductHandler) clearShoppingEntry(ctx context.Context, barcode string) {
	if err := h.db.DeleteShoppingItemsByBarcode(ctx, barcode); err != nil {
		log.Printf("Warning: failed to clear shopping list entry for %s: %v", barcode, err)
	}
}

func (h *ProductHandler) deleteProductImage(ctx context.Context, product *models.Product) {
	if h.storage == nil || product.ImageKey == nil || *product.ImageKey == "" {
		return
	}
	if err := h.storage.Delete(ctx, *product.ImageKey); err != nil {
		log.Printf("Warning: failed to delete product image %s: %v", *product.ImageKey, err)
	}
}
