//go:build windows || !cgo

package services

import (
	"context"
	"errors"
)

var (
	ErrOCRFailed  = errors.New("ocr recognition failed")
	ErrOCRTimeout = errors.New("ocr recognition timed out")
)

// OCRService handles optical character recognition (stub for Windows)
type OCRService struct{}

// NewOCRService creates a new OCR service (not available on Windows)
func NewOCRService(languages string) *OCRService {
	return &OCRService{}
}

// Recognize is not available on Windows - run in a Docker container
func (s *OCRService) Recognize(ctx context.Context, imagePath string) (string, error) {
	return "", errors.New("OCR service is not available on Windows - run in Docker container")
}
