package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"tripvia/internal/bookings"
	"tripvia/internal/users"
)

var ErrNotFound = errors.New("notification not found")

// UserDirectory resolves booking owners and admin recipients to their
// account details (declared here to avoid a circular dependency on the
// auth package).
type UserDirectory interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error)
	ListAdmins(ctx context.Context) ([]users.User, error)
}

// Service persists in-app notifications and feeds the email pipeline.
// It implements the booking engine's Notifier contract.
type Service interface {
	bookings.Notifier

	ListUserNotifications(ctx context.Context, userID uuid.UUID, query NotificationListQuery) (*PaginatedNotifications, error)
	ListBroadcasts(ctx context.Context, query NotificationListQuery) (*PaginatedNotifications, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	producer Producer
	userDir  UserDirectory
}

func NewService(repo Repository, producer Producer, userDir UserDirectory) Service {
	return &service{
		repo:     repo,
		producer: producer,
		userDir:  userDir,
	}
}

// BookingCreated is addressed to admins, not the booking owner: it is the
// signal that a payment will soon need validating.
func (s *service) BookingCreated(ctx context.Context, booking *bookings.Booking) error {
	title := "Booking baru menunggu pembayaran"
	message := fmt.Sprintf(
		"Booking baru dibuat oleh %s dengan total Rp %.0f. Batas pembayaran %s.",
		booking.RequesterName, booking.TotalPrice,
		booking.ExpiredAt.Format("02 Jan 2006 15:04"),
	)
	return s.broadcast(ctx, booking, TypeBookingCreated, title, message)
}

func (s *service) PaymentApproved(ctx context.Context, booking *bookings.Booking) error {
	title := "Pembayaran dikonfirmasi"
	message := "Pembayaran Anda telah divalidasi. Status booking Anda sekarang lunas."
	return s.dispatch(ctx, booking, TypePaymentApproved, title, message)
}

func (s *service) PaymentRejected(ctx context.Context, booking *bookings.Booking, reason string) error {
	title := "Pembayaran ditolak"
	message := "Bukti pembayaran Anda ditolak."
	if reason != "" {
		message = fmt.Sprintf("Bukti pembayaran Anda ditolak. Alasan: %s", reason)
	}
	return s.dispatch(ctx, booking, TypePaymentRejected, title, message)
}

func (s *service) BookingExpired(ctx context.Context, booking *bookings.Booking) error {
	title := "Booking kedaluwarsa"
	message := "Booking Anda telah kedaluwarsa karena pembayaran tidak diterima dalam batas waktu."
	return s.dispatch(ctx, booking, TypeBookingExpired, title, message)
}

func bookingPayload(booking *bookings.Booking) json.RawMessage {
	data, _ := json.Marshal(map[string]interface{}{
		"booking_id":   booking.ID.String(),
		"catalog_type": booking.CatalogType.String(),
		"status":       booking.Status.String(),
		"total_price":  booking.TotalPrice,
	})
	return data
}

// dispatch persists the in-app record addressed to the booking owner,
// then publishes the email message. A publish failure is reported to the
// caller, which treats all notification errors as non-fatal.
func (s *service) dispatch(ctx context.Context, booking *bookings.Booking, notifType NotificationType, title, message string) error {
	data := bookingPayload(booking)

	userID := booking.UserID
	record := &Notification{
		UserID:    &userID,
		BookingID: booking.ID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Data:      data,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	user, err := s.userDir.GetUserByID(ctx, booking.UserID)
	if err != nil {
		slog.Warn("failed to resolve notification recipient",
			slog.String("user_id", booking.UserID.String()), slog.Any("error", err))
		return nil
	}

	email := &EmailMessage{
		ID:             record.ID,
		Type:           notifType,
		RecipientEmail: user.Email,
		RecipientName:  user.Name,
		Subject:        title,
		Body:           message,
		BookingID:      booking.ID,
		CreatedAt:      time.Now(),
	}

	if err := s.producer.Publish(ctx, email); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// broadcast persists one shared record with a nil UserID, then fans the
// email out to every admin account.
func (s *service) broadcast(ctx context.Context, booking *bookings.Booking, notifType NotificationType, title, message string) error {
	record := &Notification{
		BookingID: booking.ID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Data:      bookingPayload(booking),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	admins, err := s.userDir.ListAdmins(ctx)
	if err != nil {
		slog.Warn("failed to resolve admin recipients",
			slog.String("booking_id", booking.ID.String()), slog.Any("error", err))
		return nil
	}

	for _, admin := range admins {
		email := &EmailMessage{
			ID:             record.ID,
			Type:           notifType,
			RecipientEmail: admin.Email,
			RecipientName:  admin.Name,
			Subject:        title,
			Body:           message,
			BookingID:      booking.ID,
			CreatedAt:      time.Now(),
		}
		if err := s.producer.Publish(ctx, email); err != nil {
			slog.Warn("failed to publish admin notification",
				slog.String("recipient", admin.Email), slog.Any("error", err))
		}
	}

	return nil
}

func (s *service) ListUserNotifications(ctx context.Context, userID uuid.UUID, query NotificationListQuery) (*PaginatedNotifications, error) {
	items, totalCount, err := s.repo.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	return &PaginatedNotifications{
		Notifications: items,
		UnreadCount:   unread,
		TotalCount:    totalCount,
		Page:          page,
		Limit:         limit,
		TotalPages:    int(math.Ceil(float64(totalCount) / float64(limit))),
	}, nil
}

// ListBroadcasts returns the admin-wide records. Read tracking is
// per-user and does not apply to shared broadcast records, so the unread
// count reflects broadcasts nobody has acted on yet.
func (s *service) ListBroadcasts(ctx context.Context, query NotificationListQuery) (*PaginatedNotifications, error) {
	items, totalCount, err := s.repo.ListBroadcasts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list broadcasts: %w", err)
	}

	var unread int64
	for _, item := range items {
		if !item.IsRead {
			unread++
		}
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	return &PaginatedNotifications{
		Notifications: items,
		UnreadCount:   unread,
		TotalCount:    totalCount,
		Page:          page,
		Limit:         limit,
		TotalPages:    int(math.Ceil(float64(totalCount) / float64(limit))),
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
