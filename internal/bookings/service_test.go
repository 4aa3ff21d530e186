package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tripvia/internal/shared/config"
	"tripvia/pkg/logger"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateWithQuotaCheck(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByIDWithProof(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from, to Status, extra map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, from, to, extra)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) AttachPaymentProof(ctx context.Context, proof *PaymentProof, from, to Status) (bool, error) {
	args := m.Called(ctx, proof, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ExpireGuarded(ctx context.Context, id uuid.UUID, from Status, now time.Time) (bool, error) {
	args := m.Called(ctx, id, from, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListAll(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) ReleaseTripQuota(ctx context.Context, tripID uuid.UUID, count int) error {
	args := m.Called(ctx, tripID, count)
	return args.Error(0)
}

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetItem(ctx context.Context, catalogType CatalogType, id uuid.UUID) (*CatalogItem, error) {
	args := m.Called(ctx, catalogType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CatalogItem), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingCreated(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockNotifier) PaymentApproved(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockNotifier) PaymentRejected(ctx context.Context, booking *Booking, reason string) error {
	args := m.Called(ctx, booking, reason)
	return args.Error(0)
}

func (m *MockNotifier) BookingExpired(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func testBookingConfig() config.BookingConfig {
	return config.BookingConfig{
		ExpiryWindow:   24 * time.Hour,
		SweepInterval:  5 * time.Minute,
		NotifyOnExpire: false,
		TripPricing:    config.PricingPerParticipant,
		TravelPricing:  config.PricingFlat,
	}
}

func newTestService(repo Repository, catalog CatalogService, notifier Notifier, now time.Time) *service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		cfg:      testBookingConfig(),
		log:      logger.GetDefault(),
		now:      func() time.Time { return now },
	}
}

func TestCreateBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	actor := Actor{ID: uuid.New()}

	validInput := func() CreateBookingInput {
		return CreateBookingInput{
			RequesterName:    "Budi Santoso",
			Phone:            "081234567890",
			DepartureDate:    now.AddDate(0, 0, 14),
			ParticipantCount: 2,
		}
	}

	t.Run("trip price is per participant", func(t *testing.T) {
		repo := new(MockRepository)
		catalog := new(MockCatalogService)
		notifier := new(MockNotifier)
		svc := newTestService(repo, catalog, notifier, now)

		tripID := uuid.New()
		catalog.On("GetItem", mock.Anything, CatalogTrip, tripID).Return(&CatalogItem{
			ID:          tripID,
			Type:        CatalogTrip,
			Name:        "Bromo Sunrise",
			Price:       1000000,
			Quota:       10,
			Active:      true,
			PricingMode: config.PricingPerParticipant,
		}, nil)
		repo.On("CreateWithQuotaCheck", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)
		notifier.On("BookingCreated", mock.Anything, mock.Anything).Return(nil)

		booking, item, err := svc.CreateBooking(context.Background(), actor, CatalogTrip, tripID, validInput())

		require.NoError(t, err)
		assert.Equal(t, float64(2000000), booking.TotalPrice)
		assert.Equal(t, StatusMenungguPembayaran, booking.Status)
		assert.Equal(t, now.Add(24*time.Hour), booking.ExpiredAt)
		assert.Equal(t, "Bromo Sunrise", item.Name)
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("travel price is flat regardless of participants", func(t *testing.T) {
		repo := new(MockRepository)
		catalog := new(MockCatalogService)
		notifier := new(MockNotifier)
		svc := newTestService(repo, catalog, notifier, now)

		travelID := uuid.New()
		catalog.On("GetItem", mock.Anything, CatalogTravel, travelID).Return(&CatalogItem{
			ID:          travelID,
			Type:        CatalogTravel,
			Name:        "Jakarta - Bandung",
			Price:       150000,
			Active:      true,
			PricingMode: config.PricingFlat,
		}, nil)
		repo.On("CreateWithQuotaCheck", mock.Anything, mock.Anything).Return(nil)
		notifier.On("BookingCreated", mock.Anything, mock.Anything).Return(nil)

		input := validInput()
		input.ParticipantCount = 4

		booking, _, err := svc.CreateBooking(context.Background(), actor, CatalogTravel, travelID, input)

		require.NoError(t, err)
		assert.Equal(t, float64(150000), booking.TotalPrice)
	})

	t.Run("rejects participant count below one", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockCatalogService), new(MockNotifier), now)

		input := validInput()
		input.ParticipantCount = 0

		_, _, err := svc.CreateBooking(context.Background(), actor, CatalogTrip, uuid.New(), input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects past departure date", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockCatalogService), new(MockNotifier), now)

		input := validInput()
		input.DepartureDate = now.AddDate(0, 0, -1)

		_, _, err := svc.CreateBooking(context.Background(), actor, CatalogTrip, uuid.New(), input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("inactive catalog item reads as not found", func(t *testing.T) {
		repo := new(MockRepository)
		catalog := new(MockCatalogService)
		svc := newTestService(repo, catalog, new(MockNotifier), now)

		tripID := uuid.New()
		catalog.On("GetItem", mock.Anything, CatalogTrip, tripID).Return(&CatalogItem{
			ID: tripID, Type: CatalogTrip, Active: false, PricingMode: config.PricingPerParticipant,
		}, nil)

		_, _, err := svc.CreateBooking(context.Background(), actor, CatalogTrip, tripID, validInput())
		assert.ErrorIs(t, err, ErrCatalogNotFound)
		repo.AssertNotCalled(t, "CreateWithQuotaCheck", mock.Anything, mock.Anything)
	})

	t.Run("insufficient trip quota", func(t *testing.T) {
		catalog := new(MockCatalogService)
		svc := newTestService(new(MockRepository), catalog, new(MockNotifier), now)

		tripID := uuid.New()
		catalog.On("GetItem", mock.Anything, CatalogTrip, tripID).Return(&CatalogItem{
			ID: tripID, Type: CatalogTrip, Price: 500000, Quota: 1, Active: true,
			PricingMode: config.PricingPerParticipant,
		}, nil)

		_, _, err := svc.CreateBooking(context.Background(), actor, CatalogTrip, tripID, validInput())
		assert.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("notification failure does not fail the booking", func(t *testing.T) {
		repo := new(MockRepository)
		catalog := new(MockCatalogService)
		notifier := new(MockNotifier)
		svc := newTestService(repo, catalog, notifier, now)

		tripID := uuid.New()
		catalog.On("GetItem", mock.Anything, CatalogTrip, tripID).Return(&CatalogItem{
			ID: tripID, Type: CatalogTrip, Price: 500000, Quota: 10, Active: true,
			PricingMode: config.PricingPerParticipant,
		}, nil)
		repo.On("CreateWithQuotaCheck", mock.Anything, mock.Anything).Return(nil)
		notifier.On("BookingCreated", mock.Anything, mock.Anything).Return(assert.AnError)

		_, _, err := svc.CreateBooking(context.Background(), actor, CatalogTrip, tripID, validInput())
		assert.NoError(t, err)
	})
}

func TestUploadPaymentProof(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	owner := Actor{ID: uuid.New()}
	bookingID := uuid.New()

	pendingBooking := func() *Booking {
		return &Booking{
			ID:        bookingID,
			UserID:    owner.ID,
			Status:    StatusMenungguPembayaran,
			ExpiredAt: now.Add(12 * time.Hour),
		}
	}

	input := PaymentProofInput{ImageURL: "/uploads/payment-proofs/a.jpg", BankName: "BCA"}

	t.Run("moves booking to menunggu_validasi", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("GetByIDWithProof", mock.Anything, bookingID).Return(pendingBooking(), nil)
		repo.On("AttachPaymentProof", mock.Anything, mock.AnythingOfType("*bookings.PaymentProof"),
			StatusMenungguPembayaran, StatusMenungguValidasi).Return(true, nil)

		booking, proof, err := svc.UploadPaymentProof(context.Background(), owner, bookingID, input)

		require.NoError(t, err)
		assert.Equal(t, StatusMenungguValidasi, booking.Status)
		assert.Equal(t, "BCA", proof.BankName)
		repo.AssertExpectations(t)
	})

	t.Run("second upload is rejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		b := pendingBooking()
		b.Status = StatusMenungguValidasi
		b.PaymentProof = &PaymentProof{BookingID: bookingID}
		repo.On("GetByIDWithProof", mock.Anything, bookingID).Return(b, nil)

		_, _, err := svc.UploadPaymentProof(context.Background(), owner, bookingID, input)
		assert.ErrorIs(t, err, ErrInvalidState)
		repo.AssertNotCalled(t, "AttachPaymentProof", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload after expiry window names the expected status", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		b := pendingBooking()
		b.ExpiredAt = now.Add(-time.Minute)
		repo.On("GetByIDWithProof", mock.Anything, bookingID).Return(b, nil)

		_, _, err := svc.UploadPaymentProof(context.Background(), owner, bookingID, input)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Contains(t, err.Error(), "expected status menunggu pembayaran")
	})

	t.Run("foreign booking reads as not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("GetByIDWithProof", mock.Anything, bookingID).Return(pendingBooking(), nil)

		stranger := Actor{ID: uuid.New()}
		_, _, err := svc.UploadPaymentProof(context.Background(), stranger, bookingID, input)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("losing the race against the sweep surfaces the new state", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("GetByIDWithProof", mock.Anything, bookingID).Return(pendingBooking(), nil)
		repo.On("AttachPaymentProof", mock.Anything, mock.Anything,
			StatusMenungguPembayaran, StatusMenungguValidasi).Return(false, nil)

		raced := pendingBooking()
		raced.Status = StatusExpired
		repo.On("GetByID", mock.Anything, bookingID).Return(raced, nil)

		_, _, err := svc.UploadPaymentProof(context.Background(), owner, bookingID, input)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestApproveBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	admin := Actor{ID: uuid.New(), Role: "ADMIN"}
	bookingID := uuid.New()

	t.Run("approves a validated payment", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := newTestService(repo, new(MockCatalogService), notifier, now)

		repo.On("GetByID", mock.Anything, bookingID).Return(&Booking{
			ID: bookingID, Status: StatusMenungguValidasi,
		}, nil)
		repo.On("UpdateStatusGuarded", mock.Anything, bookingID,
			StatusMenungguValidasi, StatusLunas, mock.Anything).Return(true, nil)
		notifier.On("PaymentApproved", mock.Anything, mock.Anything).Return(nil)

		booking, err := svc.ApproveBooking(context.Background(), admin, bookingID)

		require.NoError(t, err)
		assert.Equal(t, StatusLunas, booking.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		_, err := svc.ApproveBooking(context.Background(), Actor{ID: uuid.New(), Role: "USER"}, bookingID)
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("terminal booking cannot be approved", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("GetByID", mock.Anything, bookingID).Return(&Booking{
			ID: bookingID, Status: StatusLunas,
		}, nil)
		repo.On("UpdateStatusGuarded", mock.Anything, bookingID,
			StatusMenungguValidasi, StatusLunas, mock.Anything).Return(false, nil)

		_, err := svc.ApproveBooking(context.Background(), admin, bookingID)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Contains(t, err.Error(), "expected status menunggu validasi")
	})
}

func TestRejectBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	admin := Actor{ID: uuid.New(), Role: "ADMIN"}
	bookingID := uuid.New()
	tripID := uuid.New()

	t.Run("stores the reason and releases trip quota", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := newTestService(repo, new(MockCatalogService), notifier, now)

		repo.On("GetByID", mock.Anything, bookingID).Return(&Booking{
			ID: bookingID, Status: StatusMenungguValidasi,
			CatalogType: CatalogTrip, CatalogID: tripID, ParticipantCount: 3,
		}, nil)
		repo.On("UpdateStatusGuarded", mock.Anything, bookingID,
			StatusMenungguValidasi, StatusDitolak,
			map[string]interface{}{"rejection_reason": "transfer tidak ditemukan"}).Return(true, nil)
		repo.On("ReleaseTripQuota", mock.Anything, tripID, 3).Return(nil)
		notifier.On("PaymentRejected", mock.Anything, mock.Anything, "transfer tidak ditemukan").Return(nil)

		booking, err := svc.RejectBooking(context.Background(), admin, bookingID, "transfer tidak ditemukan")

		require.NoError(t, err)
		assert.Equal(t, StatusDitolak, booking.Status)
		require.NotNil(t, booking.RejectionReason)
		assert.Equal(t, "transfer tidak ditemukan", *booking.RejectionReason)
		repo.AssertExpectations(t)
	})

	t.Run("rejecting an unpaid booking fails", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("GetByID", mock.Anything, bookingID).Return(&Booking{
			ID: bookingID, Status: StatusMenungguPembayaran,
		}, nil)
		repo.On("UpdateStatusGuarded", mock.Anything, bookingID,
			StatusMenungguValidasi, StatusDitolak, mock.Anything).Return(false, nil)

		_, err := svc.RejectBooking(context.Background(), admin, bookingID, "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGetBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	owner := Actor{ID: uuid.New()}
	bookingID := uuid.New()

	t.Run("owner sees own booking", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("GetByIDWithProof", mock.Anything, bookingID).Return(&Booking{
			ID: bookingID, UserID: owner.ID, Status: StatusLunas,
		}, nil)

		booking, err := svc.GetBooking(context.Background(), owner, bookingID)
		require.NoError(t, err)
		assert.Equal(t, bookingID, booking.ID)
	})

	t.Run("admin sees any booking", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("GetByIDWithProof", mock.Anything, bookingID).Return(&Booking{
			ID: bookingID, UserID: owner.ID,
		}, nil)

		_, err := svc.GetBooking(context.Background(), Actor{ID: uuid.New(), Role: "ADMIN"}, bookingID)
		assert.NoError(t, err)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("GetByIDWithProof", mock.Anything, bookingID).Return(&Booking{
			ID: bookingID, UserID: owner.ID,
		}, nil)

		_, err := svc.GetBooking(context.Background(), Actor{ID: uuid.New(), Role: "USER"}, bookingID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSweepExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tripID := uuid.New()

	t.Run("expires overdue bookings and releases quota", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		overdue := []Booking{
			{ID: uuid.New(), Status: StatusMenungguPembayaran, CatalogType: CatalogTrip, CatalogID: tripID, ParticipantCount: 2},
			{ID: uuid.New(), Status: StatusMenungguValidasi, CatalogType: CatalogTravel, CatalogID: uuid.New()},
		}
		repo.On("FindOverdue", mock.Anything, now, 0).Return(overdue, nil)
		repo.On("ExpireGuarded", mock.Anything, overdue[0].ID, StatusMenungguPembayaran, now).Return(true, nil)
		repo.On("ExpireGuarded", mock.Anything, overdue[1].ID, StatusMenungguValidasi, now).Return(true, nil)
		repo.On("ReleaseTripQuota", mock.Anything, tripID, 2).Return(nil)

		expired, err := svc.SweepExpired(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 2, expired)
		repo.AssertExpectations(t)
	})

	t.Run("skips bookings that transitioned between scan and update", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		raced := Booking{ID: uuid.New(), Status: StatusMenungguPembayaran, CatalogType: CatalogTravel}
		repo.On("FindOverdue", mock.Anything, now, 0).Return([]Booking{raced}, nil)
		repo.On("ExpireGuarded", mock.Anything, raced.ID, StatusMenungguPembayaran, now).Return(false, nil)

		expired, err := svc.SweepExpired(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 0, expired)
		repo.AssertNotCalled(t, "ReleaseTripQuota", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("second sweep over a clean table is a no-op", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		repo.On("FindOverdue", mock.Anything, now, 0).Return([]Booking{}, nil)

		expired, err := svc.SweepExpired(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 0, expired)
	})

	t.Run("per-row failure does not abort the sweep", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockCatalogService), new(MockNotifier), now)

		overdue := []Booking{
			{ID: uuid.New(), Status: StatusMenungguPembayaran, CatalogType: CatalogTravel},
			{ID: uuid.New(), Status: StatusMenungguPembayaran, CatalogType: CatalogTravel},
		}
		repo.On("FindOverdue", mock.Anything, now, 0).Return(overdue, nil)
		repo.On("ExpireGuarded", mock.Anything, overdue[0].ID, StatusMenungguPembayaran, now).Return(false, assert.AnError)
		repo.On("ExpireGuarded", mock.Anything, overdue[1].ID, StatusMenungguPembayaran, now).Return(true, nil)

		expired, err := svc.SweepExpired(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 1, expired)
	})
}

func TestListAllBookingsRequiresAdmin(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(new(MockRepository), new(MockCatalogService), new(MockNotifier), now)

	_, err := svc.ListAllBookings(context.Background(), Actor{ID: uuid.New(), Role: "USER"}, BookingListQuery{})
	assert.ErrorIs(t, err, ErrForbidden)
}
