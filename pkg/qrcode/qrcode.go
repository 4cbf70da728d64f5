package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRService renders share links as PNG QR codes.
type QRService struct {
	baseURL string
}

func NewQRService(baseURL string) *QRService {
	return &QRService{
		baseURL: baseURL,
	}
}

// GenerateQRCode returns a PNG for the event's public share link.
func (s *QRService) GenerateQRCode(shareToken string, size int) ([]byte, error) {
	fullURL := fmt.Sprintf("%s/e/%s", s.baseURL, shareToken)

	png, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}

	return png, nil
}
