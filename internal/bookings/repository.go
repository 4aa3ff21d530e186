package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Core booking operations
	CreateWithQuotaCheck(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDWithProof(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Status-guarded conditional updates; return false when the stored
	// status no longer matches `from` (a concurrent transition won)
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) (bool, error)
	AttachPaymentProof(ctx context.Context, proof *PaymentProof, from, to Status) (bool, error)
	ExpireGuarded(ctx context.Context, id uuid.UUID, from Status, now time.Time) (bool, error)

	// Listing
	ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	ListAll(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// Sweep support
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]Booking, error)

	// Quota bookkeeping for trips
	ReleaseTripQuota(ctx context.Context, tripID uuid.UUID, count int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithQuotaCheck creates a booking atomically. For trip bookings the
// trip row is locked for update so two concurrent bookings cannot both
// consume the last seats.
func (r *repository) CreateWithQuotaCheck(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if booking.CatalogType == CatalogTrip {
			var trip struct {
				ID          uuid.UUID `gorm:"column:id"`
				Quota       int       `gorm:"column:quota"`
				BookedCount int       `gorm:"column:booked_count"`
				Active      bool      `gorm:"column:active"`
			}

			err := tx.Table("trips").
				Select("id, quota, booked_count, active").
				Where("id = ?", booking.CatalogID).
				Set("gorm:query_option", "FOR UPDATE").
				First(&trip).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCatalogNotFound
				}
				return fmt.Errorf("failed to lock trip: %w", err)
			}

			if !trip.Active {
				return ErrCatalogNotFound
			}

			newBookedCount := trip.BookedCount + booking.ParticipantCount
			if newBookedCount > trip.Quota {
				return ErrQuotaExceeded
			}

			if err := tx.Create(booking).Error; err != nil {
				return fmt.Errorf("failed to create booking: %w", err)
			}

			err = tx.Table("trips").
				Where("id = ?", booking.CatalogID).
				Update("booked_count", newBookedCount).Error
			if err != nil {
				return fmt.Errorf("failed to update trip booked count: %w", err)
			}

			return nil
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByIDWithProof(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("PaymentProof").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// UpdateStatusGuarded performs a conditional status transition. Only one
// of two concurrent attempts can match the `from` status; the loser gets
// ok=false and must re-read to report the actual state.
func (r *repository) UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		updates[k] = v
	}

	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AttachPaymentProof creates the proof record and transitions the booking
// in one transaction. The unique index on payment_proofs.booking_id backs
// the at-most-one-proof invariant at the storage level.
func (r *repository) AttachPaymentProof(ctx context.Context, proof *PaymentProof, from, to Status) (bool, error) {
	ok := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", proof.BookingID, from).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // leave ok=false, no proof created
		}

		if err := tx.Create(proof).Error; err != nil {
			return fmt.Errorf("failed to create payment proof: %w", err)
		}
		ok = true
		return nil
	})
	return ok, err
}

// ExpireGuarded transitions a booking to expired only if it still holds
// the expected status AND is overdue at update time, so a proof upload
// landing concurrently is never clobbered.
func (r *repository) ExpireGuarded(ctx context.Context, id uuid.UUID, from Status, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ? AND expired_at <= ?", id, from, now).
		Updates(map[string]interface{}{
			"status":     StatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)
	return r.paginate(baseQuery, query)
}

func (r *repository) ListAll(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).Model(&Booking{})
	return r.paginate(baseQuery, query)
}

func (r *repository) paginate(baseQuery *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery = applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("PaymentProof").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

// FindOverdue returns bookings the sweep should expire: still in a
// payable state with the payment window behind them.
func (r *repository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	q := r.db.WithContext(ctx).
		Where("status IN ?", []Status{StatusMenungguPembayaran, StatusMenungguValidasi}).
		Where("expired_at <= ?", now).
		Order("expired_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&bookings).Error
	return bookings, err
}

func (r *repository) ReleaseTripQuota(ctx context.Context, tripID uuid.UUID, count int) error {
	return r.db.WithContext(ctx).
		Table("trips").
		Where("id = ?", tripID).
		Update("booked_count", gorm.Expr("GREATEST(booked_count - ?, 0)", count)).Error
}

// applyFilters applies query filters to the GORM query
func applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.CatalogType != "" {
		query = query.Where("catalog_type = ?", filters.CatalogType)
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("created_at >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("created_at <= ?", dateTo)
		}
	}

	return query
}

// CalculateTotalPages is a helper for pagination metadata
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
