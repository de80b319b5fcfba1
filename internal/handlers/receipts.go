package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/xamad/smartfridge/internal/config"
	"github.com/xamad/smartfridge/internal/models"
	"github.com/xamad/smartfridge/internal/services"
)

// TextRecognizer is the OCR capability the receipt pipeline consumes. It
// makes no guarantee about segmentation or character accuracy.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// ParsedProductStore persists receipt-derived products, one insert per record
type ParsedProductStore interface {
	InsertParsedProduct(ctx context.Context, p *models.ParsedProduct) error
}

// ReceiptHandler handles receipt and label OCR endpoints
type ReceiptHandler struct {
	cfg     *config.Config
	ocr     TextRecognizer
	parser  *services.ReceiptParser
	store   ParsedProductStore
	storage *services.StorageService
}

// NewReceiptHandler creates a new receipt handler. storage may be nil when
// no S3 archive is configured.
func NewReceiptHandler(cfg *config.Config, ocr TextRecognizer, parser *services.ReceiptParser, store ParsedProductStore, storage *services.StorageService) *ReceiptHandler {
	return &ReceiptHandler{
		cfg:     cfg,
		ocr:     ocr,
		parser:  parser,
		store:   store,
		storage: storage,
	}
}

// ProcessReceipt handles the receipt image upload: OCR once, parse the text
// into deli products, persist each record, answer with a summary. Zero
// recognized products is a normal outcome.
func (h *ReceiptHandler) ProcessReceipt(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	contentType := file.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP")
	}

	if file.Size > 10*1024*1024 {
		return Error(c, fiber.StatusBadRequest, "file too large. Maximum size is 10MB")
	}

	tmpPath, cleanup, err := spoolUpload(c, file)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to store upload")
	}
	// The upload is transient: remove it no matter how processing ends
	defer cleanup()

	ctx, cancel := context.WithTimeout(c.Context(), h.cfg.OCRTimeout)
	defer cancel()

	text, err := h.ocr.Recognize(ctx, tmpPath)
	if err != nil {
		if errors.Is(err, services.ErrOCRTimeout) {
			return Error(c, fiber.StatusInternalServerError, "OCR processing timed out")
		}
		return Error(c, fiber.StatusInternalServerError, "OCR processing failed")
	}

	parsed := h.parser.Parse(text)

	for i := range parsed.Products {
		if err := h.store.InsertParsedProduct(c.Context(), &parsed.Products[i]); err != nil {
			// Each record persists independently; a failed insert loses
			// one product, not the batch
			log.Printf("Warning: failed to persist parsed product %q: %v", parsed.Products[i].Name, err)
		}
	}

	h.archiveReceipt(c.Context(), tmpPath, file.Filename, contentType, file.Size)

	summary := models.ReceiptSummary{
		Success:       true,
		PurchaseDate:  parsed.PurchaseDate.Format("2006-01-02"),
		ExpiryDate:    parsed.ExpiryDate.Format("2006-01-02"),
		ProductsFound: len(parsed.Products),
		Products:      make([]models.ReceiptProductView, 0, len(parsed.Products)),
	}
	for _, p := range parsed.Products {
		summary.Products = append(summary.Products, models.ReceiptProductView{
			Name:     p.Name,
			Weight:   p.Weight,
			Category: p.Category,
		})
	}

	return c.JSON(summary)
}

// RecognizeExpiry handles label photos from the scanner device: OCR the
// image and answer with the first date found, normalized.
func (h *ReceiptHandler) RecognizeExpiry(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	tmpPath, cleanup, err := spoolUpload(c, file)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to store upload")
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(c.Context(), h.cfg.OCRTimeout)
	defer cancel()

	text, err := h.ocr.Recognize(ctx, tmpPath)
	if err != nil {
		if errors.Is(err, services.ErrOCRTimeout) {
			return Error(c, fiber.StatusInternalServerError, "OCR processing timed out")
		}
		return Error(c, fiber.StatusInternalServerError, "OCR processing failed")
	}

	var expiryDate *string
	confidence := 0.0
	if date, ok := h.parser.FindDate(text); ok {
		formatted := date.Format("2006-01-02")
		expiryDate = &formatted
		confidence = 0.7
	}

	return c.JSON(fiber.Map{
		"expiry_date": expiryDate,
		"confidence":  confidence,
	})
}

// spoolUpload writes the multipart file to a temp path and returns a cleanup
// func that always removes it
func spoolUpload(c *fiber.Ctx, file *multipart.FileHeader) (string, func(), error) {
	tmpFile, err := os.CreateTemp("", "upload-*"+fileExt(file.Filename))
	if err != nil {
		return "", nil, err
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := c.SaveFile(file, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", nil, err
	}

	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Printf("Warning: failed to remove temp upload %s: %v", tmpPath, err)
		}
	}
	return tmpPath, cleanup, nil
}

// archiveReceipt uploads the processed image to S3, best effort
func (h *ReceiptHandler) archiveReceipt(ctx context.Context, path, filename, contentType string, size int64) {
	if h.storage == nil {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Warning: failed to open receipt image for archiving: %v", err)
		return
	}
	defer f.Close()

	key := fmt.Sprintf("receipts/%d%s", time.Now().UnixNano(), fileExt(filename))
	if err := h.storage.Upload(ctx, key, f, size, contentType); err != nil {
		log.Printf("Warning: failed to archive receipt image: %v", err)
	}
}

// isValidImageType checks if the content type is a valid image
func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
	}

	for _, t := range validTypes {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}

func fileExt(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx != -1 {
		return strings.ToLower(filename[idx:])
	}
	return ".jpg"
}
