package bookings

import "time"

// CatalogSummary is the catalog snapshot echoed back on creation
type CatalogSummary struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CreateBookingResponse is the 201 payload of booking creation
type CreateBookingResponse struct {
	BookingID  string         `json:"booking_id"`
	TotalPrice float64        `json:"total_price"`
	Status     Status         `json:"status"`
	ExpiredAt  time.Time      `json:"expired_at"`
	Catalog    CatalogSummary `json:"catalog"`
}

// PaymentProofResponse is the 200 payload of a proof upload
type PaymentProofResponse struct {
	Booking      *Booking      `json:"booking"`
	PaymentProof *PaymentProof `json:"payment_proof"`
}

// StatusResponse reports the status after an admin decision
type StatusResponse struct {
	Status Status `json:"status"`
}

// PaginatedBookings wraps a booking listing with pagination metadata
type PaginatedBookings struct {
	Bookings   []Booking `json:"bookings"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

func newCatalogSummary(item *CatalogItem) CatalogSummary {
	return CatalogSummary{
		ID:    item.ID.String(),
		Type:  item.Type.String(),
		Name:  item.Name,
		Price: item.Price,
	}
}
