package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeBookingCreated  NotificationType = "booking_created"
	TypePaymentApproved NotificationType = "payment_approved"
	TypePaymentRejected NotificationType = "payment_rejected"
	TypeBookingExpired  NotificationType = "booking_expired"
)

// Notification is the in-app notification record. A nil UserID marks an
// admin broadcast visible to every admin rather than one user's inbox.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    *uuid.UUID       `json:"user_id,omitempty" gorm:"type:uuid;index"`
	BookingID uuid.UUID        `json:"booking_id" gorm:"type:uuid;not null"`
	Type      NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	Title     string           `json:"title" gorm:"not null;size:255"`
	Message   string           `json:"message" gorm:"type:text"`
	Data      json.RawMessage  `json:"data,omitempty" gorm:"type:jsonb"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// EmailMessage is the wire format published to the notification topic and
// consumed by the email workers.
type EmailMessage struct {
	ID             uuid.UUID        `json:"id"`
	Type           NotificationType `json:"type"`
	RecipientEmail string           `json:"recipient_email"`
	RecipientName  string           `json:"recipient_name"`
	Subject        string           `json:"subject"`
	Body           string           `json:"body"`
	BookingID      uuid.UUID        `json:"booking_id"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (m *EmailMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PartitionKey routes all messages for one recipient to the same
// partition so they arrive in order.
func (m *EmailMessage) PartitionKey() string {
	return m.RecipientEmail
}

type NotificationListQuery struct {
	Page   int   `form:"page" binding:"omitempty,min=1"`
	Limit  int   `form:"limit" binding:"omitempty,min=1,max=100"`
	Unread *bool `form:"unread"`
}

type PaginatedNotifications struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
	TotalCount    int64          `json:"total_count"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	TotalPages    int            `json:"total_pages"`
}
