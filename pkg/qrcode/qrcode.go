package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// QRService renders storefront links as PNG QR codes.
type QRService struct {
	baseURL string // frontend origin, e.g. "https://fotos.koaestudio.com"
}

func NewQRService(baseURL string) *QRService {
	return &QRService{
		baseURL: baseURL,
	}
}

// PaymentReference encodes the payment screen of an order, the reference a
// client scans to pay from a banking app.
func (s *QRService) PaymentReference(orderID string, size int) ([]byte, error) {
	return s.encode(fmt.Sprintf("%s/payment/%s", s.baseURL, orderID), size)
}

// GalleryLink encodes the public gallery of an event.
func (s *QRService) GalleryLink(eventID string, size int) ([]byte, error) {
	return s.encode(fmt.Sprintf("%s/event/%s", s.baseURL, eventID), size)
}

func (s *QRService) encode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}
	return png, nil
}
