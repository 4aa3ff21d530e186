package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Trip is an open-trip package with a participant quota.
type Trip struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name         string    `json:"name" gorm:"not null;size:255"`
	Description  string    `json:"description" gorm:"type:text"`
	Destination  string    `json:"destination" gorm:"not null;size:255"`
	DurationDays int       `json:"duration_days" gorm:"not null;default:1;check:duration_days > 0"`
	Price        float64   `json:"price" gorm:"not null;check:price >= 0"`
	Quota        int       `json:"quota" gorm:"not null;check:quota > 0"`
	BookedCount  int       `json:"booked_count" gorm:"default:0;check:booked_count >= 0"`
	Active       bool      `json:"active" gorm:"default:true"`
	ImageURL     string    `json:"image_url" gorm:"size:500"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Travel is a shuttle route with one flat price per booking.
type Travel struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Origin      string    `json:"origin" gorm:"not null;size:255"`
	Destination string    `json:"destination" gorm:"not null;size:255"`
	Schedule    string    `json:"schedule" gorm:"size:100"`
	Price       float64   `json:"price" gorm:"not null;check:price >= 0"`
	Active      bool      `json:"active" gorm:"default:true"`
	ImageURL    string    `json:"image_url" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type TripResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Destination    string    `json:"destination"`
	DurationDays   int       `json:"duration_days"`
	Price          float64   `json:"price"`
	Quota          int       `json:"quota"`
	BookedCount    int       `json:"booked_count"`
	AvailableSeats int       `json:"available_seats"`
	Active         bool      `json:"active"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type TravelResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Schedule    string    `json:"schedule"`
	Price       float64   `json:"price"`
	Active      bool      `json:"active"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PaginatedTrips struct {
	Trips      []TripResponse `json:"trips"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type PaginatedTravels struct {
	Travels    []TravelResponse `json:"travels"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

func (t *Trip) ToResponse() TripResponse {
	available := t.Quota - t.BookedCount
	if available < 0 {
		available = 0
	}

	return TripResponse{
		ID:             t.ID.String(),
		Name:           t.Name,
		Description:    t.Description,
		Destination:    t.Destination,
		DurationDays:   t.DurationDays,
		Price:          t.Price,
		Quota:          t.Quota,
		BookedCount:    t.BookedCount,
		AvailableSeats: available,
		Active:         t.Active,
		ImageURL:       t.ImageURL,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (t *Travel) ToResponse() TravelResponse {
	return TravelResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Origin:      t.Origin,
		Destination: t.Destination,
		Schedule:    t.Schedule,
		Price:       t.Price,
		Active:      t.Active,
		ImageURL:    t.ImageURL,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Trip) TableName() string {
	return "trips"
}

func (Travel) TableName() string {
	return "travels"
}
