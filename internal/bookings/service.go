package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tripvia/internal/shared/config"
	"tripvia/pkg/logger"
)

// CatalogService is the read-only catalog collaborator (declared here to
// avoid a circular dependency on the catalog package).
type CatalogService interface {
	GetItem(ctx context.Context, catalogType CatalogType, id uuid.UUID) (*CatalogItem, error)
}

// Notifier receives booking lifecycle events. Calls are fire-and-forget:
// the engine logs failures and never fails a transition over them.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *Booking) error
	PaymentApproved(ctx context.Context, booking *Booking) error
	PaymentRejected(ctx context.Context, booking *Booking, reason string) error
	BookingExpired(ctx context.Context, booking *Booking) error
}

// Service interface defines the contract for the booking lifecycle engine
type Service interface {
	CreateBooking(ctx context.Context, actor Actor, catalogType CatalogType, catalogID uuid.UUID, input CreateBookingInput) (*Booking, *CatalogItem, error)
	UploadPaymentProof(ctx context.Context, actor Actor, bookingID uuid.UUID, input PaymentProofInput) (*Booking, *PaymentProof, error)
	ApproveBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error)
	RejectBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, reason string) (*Booking, error)

	GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error)
	ListUserBookings(ctx context.Context, actor Actor, query BookingListQuery) (*PaginatedBookings, error)
	ListAllBookings(ctx context.Context, actor Actor, query BookingListQuery) (*PaginatedBookings, error)

	// SweepExpired transitions every overdue payable booking to expired.
	// Idempotent; partial failures are logged and skipped, not fatal.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo     Repository
	catalog  CatalogService
	notifier Notifier
	cfg      config.BookingConfig
	log      *logger.Logger

	// injectable clock for tests
	now func() time.Time
}

// NewService creates a new booking lifecycle service
func NewService(repo Repository, catalog CatalogService, notifier Notifier, cfg config.BookingConfig) Service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.GetDefault(),
		now:      time.Now,
	}
}

// CreateBooking validates the catalog item, computes the immutable total
// price and persists the booking in menunggu_pembayaran.
func (s *service) CreateBooking(ctx context.Context, actor Actor, catalogType CatalogType, catalogID uuid.UUID, input CreateBookingInput) (*Booking, *CatalogItem, error) {
	if !catalogType.IsValid() {
		return nil, nil, newValidationError("catalog_type", "must be trip or travel")
	}
	if input.ParticipantCount < 1 {
		return nil, nil, newValidationError("participant_count", "must be at least 1")
	}

	now := s.now()
	if !input.DepartureDate.After(now) {
		return nil, nil, newValidationError("tanggal_keberangkatan", "must be a future date")
	}

	item, err := s.catalog.GetItem(ctx, catalogType, catalogID)
	if err != nil {
		return nil, nil, err
	}
	if !item.Active {
		return nil, nil, ErrCatalogNotFound
	}
	if item.Type == CatalogTrip && item.Quota < input.ParticipantCount {
		return nil, nil, ErrQuotaExceeded
	}

	booking := &Booking{
		UserID:           actor.ID,
		CatalogType:      catalogType,
		CatalogID:        catalogID,
		RequesterName:    input.RequesterName,
		Phone:            input.Phone,
		DepartureDate:    input.DepartureDate,
		ParticipantCount: input.ParticipantCount,
		Notes:            input.Notes,
		TotalPrice:       computeTotalPrice(item, input.ParticipantCount),
		Status:           StatusMenungguPembayaran,
		ExpiredAt:        now.Add(s.cfg.ExpiryWindow),
	}

	// The repository re-checks trip quota under a row lock at write time;
	// the check above only produces a friendlier early error.
	if err := s.repo.CreateWithQuotaCheck(ctx, booking); err != nil {
		return nil, nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.CatalogType.String(), booking.CatalogID.String(), actor.ID.String())

	if err := s.notifier.BookingCreated(ctx, booking); err != nil {
		s.log.Warn("booking_created notification failed", slog.String("booking_id", booking.ID.String()), slog.Any("error", err))
	}

	return booking, item, nil
}

// computeTotalPrice applies the per-catalog-type pricing mode: trips are
// priced per participant, travels carry one flat price per booking.
func computeTotalPrice(item *CatalogItem, participantCount int) float64 {
	if item.PricingMode == config.PricingPerParticipant {
		return item.Price * float64(participantCount)
	}
	return item.Price
}

// UploadPaymentProof attaches the transfer evidence and moves the booking
// to menunggu_validasi.
func (s *service) UploadPaymentProof(ctx context.Context, actor Actor, bookingID uuid.UUID, input PaymentProofInput) (*Booking, *PaymentProof, error) {
	booking, err := s.repo.GetByIDWithProof(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	// Non-owners learn nothing, not even that the booking exists
	if booking.UserID != actor.ID && !actor.IsAdmin() {
		return nil, nil, ErrNotFound
	}

	if booking.Status != StatusMenungguPembayaran || booking.PaymentProof != nil {
		return nil, nil, newInvalidState(booking.Status, StatusMenungguPembayaran)
	}
	if booking.IsExpiredAt(s.now()) {
		return nil, nil, newInvalidState(StatusExpired, StatusMenungguPembayaran)
	}

	proof := &PaymentProof{
		BookingID: bookingID,
		ImageURL:  input.ImageURL,
		BankName:  input.BankName,
	}

	ok, err := s.repo.AttachPaymentProof(ctx, proof, StatusMenungguPembayaran, StatusMenungguValidasi)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to attach payment proof: %w", err)
	}
	if !ok {
		// lost the race against another upload or the sweep
		current, rerr := s.repo.GetByID(ctx, bookingID)
		if rerr != nil {
			return nil, nil, rerr
		}
		return nil, nil, newInvalidState(current.Status, StatusMenungguPembayaran)
	}

	booking.Status = StatusMenungguValidasi
	booking.PaymentProof = proof
	s.log.LogBookingTransition(ctx, bookingID.String(), StatusMenungguPembayaran.String(), StatusMenungguValidasi.String())

	return booking, proof, nil
}

// ApproveBooking marks a validated payment as lunas. Admin only.
func (s *service) ApproveBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.UpdateStatusGuarded(ctx, bookingID, StatusMenungguValidasi, StatusLunas, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to approve booking: %w", err)
	}
	if !ok {
		return nil, newInvalidState(booking.Status, StatusMenungguValidasi)
	}

	booking.Status = StatusLunas
	s.log.LogBookingTransition(ctx, bookingID.String(), StatusMenungguValidasi.String(), StatusLunas.String())

	if err := s.notifier.PaymentApproved(ctx, booking); err != nil {
		s.log.Warn("payment_approved notification failed", slog.String("booking_id", bookingID.String()), slog.Any("error", err))
	}

	return booking, nil
}

// RejectBooking marks a validated payment as ditolak with an optional
// reason. Admin only.
func (s *service) RejectBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, reason string) (*Booking, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	extra := map[string]interface{}{}
	if reason != "" {
		extra["rejection_reason"] = reason
	}

	ok, err := s.repo.UpdateStatusGuarded(ctx, bookingID, StatusMenungguValidasi, StatusDitolak, extra)
	if err != nil {
		return nil, fmt.Errorf("failed to reject booking: %w", err)
	}
	if !ok {
		return nil, newInvalidState(booking.Status, StatusMenungguValidasi)
	}

	booking.Status = StatusDitolak
	if reason != "" {
		booking.RejectionReason = &reason
	}
	s.log.LogBookingTransition(ctx, bookingID.String(), StatusMenungguValidasi.String(), StatusDitolak.String())

	if booking.CatalogType == CatalogTrip {
		if err := s.repo.ReleaseTripQuota(ctx, booking.CatalogID, booking.ParticipantCount); err != nil {
			s.log.Warn("failed to release trip quota", slog.String("booking_id", bookingID.String()), slog.Any("error", err))
		}
	}

	if err := s.notifier.PaymentRejected(ctx, booking, reason); err != nil {
		s.log.Warn("payment_rejected notification failed", slog.String("booking_id", bookingID.String()), slog.Any("error", err))
	}

	return booking, nil
}

// GetBooking returns a booking after the ownership check: non-admins only
// ever see their own bookings, and a foreign booking reads as not found.
func (s *service) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByIDWithProof(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrNotFound
	}

	return booking, nil
}

func (s *service) ListUserBookings(ctx context.Context, actor Actor, query BookingListQuery) (*PaginatedBookings, error) {
	bookings, total, err := s.repo.ListByUser(ctx, actor.ID, query)
	if err != nil {
		return nil, err
	}
	return paginated(bookings, total, query), nil
}

func (s *service) ListAllBookings(ctx context.Context, actor Actor, query BookingListQuery) (*PaginatedBookings, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	bookings, total, err := s.repo.ListAll(ctx, query)
	if err != nil {
		return nil, err
	}
	return paginated(bookings, total, query), nil
}

func paginated(bookings []Booking, total int64, query BookingListQuery) *PaginatedBookings {
	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	return &PaginatedBookings{
		Bookings:   bookings,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: CalculateTotalPages(total, limit),
	}
}

// SweepExpired scans overdue payable bookings and expires them one by
// one with guarded updates, so a booking a user just paid for is left
// alone. Individual failures are logged and skipped.
func (s *service) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	start := s.now()

	overdue, err := s.repo.FindOverdue(ctx, now, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to scan overdue bookings: %w", err)
	}

	expired := 0
	failed := 0
	for i := range overdue {
		booking := &overdue[i]

		ok, err := s.repo.ExpireGuarded(ctx, booking.ID, booking.Status, now)
		if err != nil {
			failed++
			s.log.Warn("failed to expire booking", slog.String("booking_id", booking.ID.String()), slog.Any("error", err))
			continue
		}
		if !ok {
			// status changed between scan and update; nothing to do
			continue
		}

		expired++
		s.log.LogBookingTransition(ctx, booking.ID.String(), booking.Status.String(), StatusExpired.String())

		if booking.CatalogType == CatalogTrip {
			if err := s.repo.ReleaseTripQuota(ctx, booking.CatalogID, booking.ParticipantCount); err != nil {
				s.log.Warn("failed to release trip quota", slog.String("booking_id", booking.ID.String()), slog.Any("error", err))
			}
		}

		if s.cfg.NotifyOnExpire {
			booking.Status = StatusExpired
			if err := s.notifier.BookingExpired(ctx, booking); err != nil {
				s.log.Warn("booking_expired notification failed", slog.String("booking_id", booking.ID.String()), slog.Any("error", err))
			}
		}
	}

	s.log.LogSweepResult(ctx, expired, failed, s.now().Sub(start))
	return expired, nil
}
