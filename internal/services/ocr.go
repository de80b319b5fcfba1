//go:build !windows && cgo

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

var (
	// ErrOCRFailed means the recognition engine errored on the image
	ErrOCRFailed = errors.New("ocr recognition failed")
	// ErrOCRTimeout means recognition exceeded the configured bound
	ErrOCRTimeout = errors.New("ocr recognition timed out")
)

// OCRService handles optical character recognition
type OCRService struct {
	languages []string
}

// NewOCRService creates a new OCR service. languages is a tesseract
// language spec such as "ita+eng".
func NewOCRService(languages string) *OCRService {
	langs := []string{"eng"}
	if languages != "" {
		langs = splitLanguages(languages)
	}
	return &OCRService{languages: langs}
}

type ocrResult struct {
	text string
	err  error
}

// Recognize extracts text from the image at the given path. The call is
// bounded by ctx; cancellation or deadline surfaces as ErrOCRTimeout so
// callers can distinguish a slow engine from a broken image.
func (s *OCRService) Recognize(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: image file not found: %s", ErrOCRFailed, imagePath)
	}

	absPath, err := filepath.Abs(imagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}

	ch := make(chan ocrResult, 1)
	go func() {
		ch <- s.recognize(absPath)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrOCRTimeout, ctx.Err())
	case res := <-ch:
		return res.text, res.err
	}
}

// recognize runs tesseract on a fresh client. gosseract clients are not
// safe for concurrent use, so each request gets its own.
func (s *OCRService) recognize(absPath string) ocrResult {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.languages...); err != nil {
		return ocrResult{err: fmt.Errorf("%w: set language: %v", ErrOCRFailed, err)}
	}

	// PSM 6 = single uniform block, the best fit for receipt columns
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return ocrResult{err: fmt.Errorf("%w: set segmentation mode: %v", ErrOCRFailed, err)}
	}

	if err := client.SetImage(absPath); err != nil {
		return ocrResult{err: fmt.Errorf("%w: set image: %v", ErrOCRFailed, err)}
	}

	text, err := client.Text()
	if err != nil {
		return ocrResult{err: fmt.Errorf("%w: %v", ErrOCRFailed, err)}
	}

	return ocrResult{text: text}
}

func splitLanguages(spec string) []string {
	var langs []string
	for _, l := range strings.Split(spec, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return langs
}
