package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/xamad/smartfridge/internal/models"
)

const (
	// shelfLifeDays is the fixed shelf-life heuristic for deli goods,
	// which carry no printed expiry date.
	shelfLifeDays = 4

	minNameLength = 3
	maxNameLength = 100
	minLineLength = 4
)

// ReceiptParser turns OCR text from a deli receipt into parsed products
type ReceiptParser struct {
	datePatterns   []*regexp.Regexp
	weightPattern  *regexp.Regexp
	pricePattern   *regexp.Regexp
	barcodePattern *regexp.Regexp
	currencyMarker *regexp.Regexp
	spacePattern   *regexp.Regexp
}

// NewReceiptParser creates a new receipt parser
func NewReceiptParser() *ReceiptParser {
	return &ReceiptParser{
		datePatterns: []*regexp.Regexp{
			// DD/MM/YYYY family first so a four-digit year is never
			// mistaken for a two-digit one
			regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})`),
			regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2})`),
		},
		// Decimal quantity followed by a unit: 0,150 kg / 1.5 hg / 300 gr
		weightPattern: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|hg|gr|g)\b`),
		// Price: exactly two fractional digits, optional currency marker
		pricePattern: regexp.MustCompile(`(?i)(?:€|\beur\b)?\s?\d+[.,]\d{2}\b`),
		// Digit runs of 8+ are barcode noise, never part of a name
		barcodePattern: regexp.MustCompile(`\d{8,}`),
		currencyMarker: regexp.MustCompile(`(?i)€|\beur\b`),
		spacePattern:   regexp.MustCompile(`\s+`),
	}
}

// Parse extracts the purchase date and all recognizable deli products from
// raw OCR text. An empty product list is a normal outcome, not an error.
func (p *ReceiptParser) Parse(ocrText string) *models.ParsedReceipt {
	purchaseDate := p.ExtractPurchaseDate(ocrText)
	expiryDate := purchaseDate.AddDate(0, 0, shelfLifeDays)

	result := &models.ParsedReceipt{
		PurchaseDate: purchaseDate,
		ExpiryDate:   expiryDate,
		Products:     []models.ParsedProduct{},
	}

	for _, line := range strings.Split(ocrText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minLineLength {
			continue
		}

		keyword, ok := MatchKeyword(line)
		if !ok {
			continue
		}

		name, weight, ok := p.extractNameAndWeight(line)
		if !ok {
			continue
		}

		result.Products = append(result.Products, models.ParsedProduct{
			GeneratedCode: generateProductCode(),
			Name:          name,
			Weight:        weight,
			Category:      ClassifyKeyword(keyword),
			PurchaseDate:  purchaseDate,
			ExpiryDate:    expiryDate,
			FromReceipt:   true,
		})
	}

	return result
}

// extractNameAndWeight strips weight, price, barcode and currency noise
// from a matched line. It returns ok=false when the leftover name is too
// short or contains no letters; such lines are dropped entirely.
func (p *ReceiptParser) extractNameAndWeight(line string) (string, *string, bool) {
	var weight *string
	if m := p.weightPattern.FindStringSubmatch(line); m != nil {
		w := m[1] + " " + strings.ToLower(m[2])
		weight = &w
	}

	cleaned := p.weightPattern.ReplaceAllString(line, " ")
	cleaned = p.pricePattern.ReplaceAllString(cleaned, " ")
	cleaned = p.barcodePattern.ReplaceAllString(cleaned, " ")
	cleaned = p.currencyMarker.ReplaceAllString(cleaned, " ")
	cleaned = p.spacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " .,;:-_*")

	// Length bounds are in characters, not bytes; OCR output is UTF-8 and
	// a byte slice could cut a rune in half
	if utf8.RuneCountInString(cleaned) > maxNameLength {
		runes := []rune(cleaned)
		cleaned = strings.TrimSpace(string(runes[:maxNameLength]))
	}

	if utf8.RuneCountInString(cleaned) < minNameLength || !containsLetter(cleaned) {
		return "", nil, false
	}

	return cleaned, weight, true
}

// ExtractPurchaseDate normalizes the first date found anywhere in the text.
// When nothing matches, the processing date applies: an approximate date
// beats a rejected receipt.
func (p *ReceiptParser) ExtractPurchaseDate(text string) time.Time {
	if date, ok := p.FindDate(text); ok {
		return date
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

// FindDate reports the first DD/MM/YYYY or DD/MM/YY substring (separators
// / - .) in the text as a calendar date. A two-digit year is expanded by
// prefixing 20. ok is false when the text contains no plausible date.
func (p *ReceiptParser) FindDate(text string) (time.Time, bool) {
	for _, pattern := range p.datePatterns {
		for _, matches := range pattern.FindAllStringSubmatch(text, -1) {
			day, err := strconv.Atoi(matches[1])
			if err != nil {
				continue
			}
			month, err := strconv.Atoi(matches[2])
			if err != nil {
				continue
			}
			year, err := strconv.Atoi(matches[3])
			if err != nil {
				continue
			}

			if year < 100 {
				year += 2000
			}

			if month < 1 || month > 12 || day < 1 || day > 31 {
				continue
			}

			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
		}
	}
	return time.Time{}, false
}

// generateProductCode mints a synthetic barcode for a receipt-derived
// product. Codes must stay unique across concurrent parses.
func generateProductCode() string {
	return "RCP-" + uuid.NewString()
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
