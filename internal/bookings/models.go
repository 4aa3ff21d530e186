package bookings

import (
	"time"

	"github.com/google/uuid"

	"tripvia/internal/users"
)

// CatalogType distinguishes the two bookable product kinds.
type CatalogType string

const (
	CatalogTrip   CatalogType = "trip"
	CatalogTravel CatalogType = "travel"
)

func (t CatalogType) IsValid() bool {
	return t == CatalogTrip || t == CatalogTravel
}

func (t CatalogType) String() string {
	return string(t)
}

// Booking is a user's request to reserve a trip or travel slot, tracked
// through the payment-validation lifecycle. Bookings are never deleted;
// terminal statuses keep the audit trail.
type Booking struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	CatalogType CatalogType `gorm:"type:varchar(10);not null" json:"catalog_type"`
	CatalogID   uuid.UUID   `gorm:"type:uuid;index;not null" json:"catalog_id"`

	RequesterName    string    `gorm:"not null;size:255" json:"nama_pemesan"`
	Phone            string    `gorm:"not null;size:20" json:"nomor_hp"`
	DepartureDate    time.Time `gorm:"not null" json:"tanggal_keberangkatan"`
	ParticipantCount int       `gorm:"not null;check:participant_count >= 1" json:"participant_count"`
	Notes            string    `gorm:"type:text" json:"catatan_tambahan,omitempty"`

	// Computed once at creation, never recomputed afterwards
	TotalPrice float64 `gorm:"not null" json:"total_price"`

	Status          Status     `gorm:"type:varchar(25);not null;default:'menunggu_pembayaran'" json:"status"`
	ExpiredAt       time.Time  `gorm:"index;not null" json:"expired_at"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relationships
	PaymentProof *PaymentProof `gorm:"foreignKey:BookingID" json:"payment_proof,omitempty"`
}

// PaymentProof is the user-submitted transfer evidence, 1:1 with its
// booking and append-only.
type PaymentProof struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"booking_id"`
	ImageURL   string    `gorm:"not null;size:500" json:"image_url"`
	BankName   string    `gorm:"size:100" json:"bank_name,omitempty"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (PaymentProof) TableName() string {
	return "payment_proofs"
}

// IsExpiredAt reports whether the payment window has passed at the given time.
func (b *Booking) IsExpiredAt(now time.Time) bool {
	return !now.Before(b.ExpiredAt)
}

// Actor is the already-authenticated caller identity passed explicitly
// into every engine operation.
type Actor struct {
	ID   uuid.UUID
	Role users.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// CatalogItem is the plain snapshot of a trip or travel product the
// engine reads from the catalog collaborator. No lazy loading happens
// inside the engine.
type CatalogItem struct {
	ID          uuid.UUID   `json:"id"`
	Type        CatalogType `json:"type"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Quota       int         `json:"quota"` // remaining capacity, trips only
	Active      bool        `json:"active"`
	PricingMode string      `json:"pricing_mode"`
}
