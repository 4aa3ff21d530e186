package bookings

import "time"

// CreateBookingRequest is the JSON body of POST /bookings/:type/:catalogId.
// Field names follow the external Indonesian-language contract. Trip
// clients send `participants`, travel clients send `passengers`; either
// fills the participant count.
type CreateBookingRequest struct {
	RequesterName string `json:"nama_pemesan" binding:"required,min=2,max=255"`
	Phone         string `json:"nomor_hp" binding:"required,min=8,max=20"`
	DepartureDate string `json:"tanggal_keberangkatan" binding:"required"`
	Participants  *int   `json:"participants" binding:"omitempty,min=1"`
	Passengers    *int   `json:"passengers" binding:"omitempty,min=1"`
	Notes         string `json:"catatan_tambahan" binding:"omitempty,max=1000"`
}

// ParticipantCount resolves the participants/passengers alias pair.
func (r *CreateBookingRequest) ParticipantCount() (int, bool) {
	if r.Participants != nil {
		return *r.Participants, true
	}
	if r.Passengers != nil {
		return *r.Passengers, true
	}
	return 0, false
}

// ParseDepartureDate accepts the date-only wire format, falling back to
// RFC 3339 for clients that send full timestamps.
func (r *CreateBookingRequest) ParseDepartureDate() (time.Time, error) {
	if t, err := time.Parse("2006-01-02", r.DepartureDate); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, r.DepartureDate)
}

// CreateBookingInput is the validated record handed to the engine.
type CreateBookingInput struct {
	RequesterName    string
	Phone            string
	DepartureDate    time.Time
	ParticipantCount int
	Notes            string
}

// PaymentProofInput carries the stored image reference and optional bank
// name for the proof upload operation.
type PaymentProofInput struct {
	ImageURL string
	BankName string
}

// RejectBookingRequest is the JSON body of PUT /admin/bookings/:id/reject
type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// BookingListQuery holds list filters shared by user and admin listings
type BookingListQuery struct {
	Page        int    `form:"page" binding:"omitempty,min=1"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status      string `form:"status" binding:"omitempty,oneof=menunggu_pembayaran menunggu_validasi lunas ditolak expired"`
	CatalogType string `form:"catalog_type" binding:"omitempty,oneof=trip travel"`
	DateFrom    string `form:"date_from"`
	DateTo      string `form:"date_to"`
}
