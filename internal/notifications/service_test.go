package notifications

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tripvia/internal/bookings"
	"tripvia/internal/users"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, notification *Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID, query NotificationListQuery) ([]Notification, int64, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListBroadcasts(ctx context.Context, query NotificationListQuery) ([]Notification, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, message *EmailMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserDirectory) ListAdmins(ctx context.Context) ([]users.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]users.User), args.Error(1)
}

func testBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		CatalogType:      bookings.CatalogTrip,
		CatalogID:        uuid.New(),
		RequesterName:    "Budi Santoso",
		Phone:            "+6281234567890",
		DepartureDate:    time.Now().Add(72 * time.Hour),
		ParticipantCount: 2,
		TotalPrice:       1700000,
		Status:           bookings.StatusMenungguPembayaran,
		ExpiredAt:        time.Now().Add(24 * time.Hour),
	}
}

func TestBookingCreated(t *testing.T) {
	t.Run("persists an admin broadcast and emails every admin", func(t *testing.T) {
		repo := new(MockRepository)
		producer := new(MockProducer)
		userDir := new(MockUserDirectory)
		svc := NewService(repo, producer, userDir)

		booking := testBooking()
		admins := []users.User{
			{ID: uuid.New(), Name: "Admin Satu", Email: "admin1@tripvia.id", Role: users.RoleAdmin},
			{ID: uuid.New(), Name: "Admin Dua", Email: "admin2@tripvia.id", Role: users.RoleAdmin},
		}

		// The record is a broadcast: nil user_id, never the booking owner
		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *Notification) bool {
			return n.UserID == nil &&
				n.BookingID == booking.ID &&
				n.Type == TypeBookingCreated &&
				strings.Contains(n.Message, "dibuat oleh Budi Santoso")
		})).Return(nil)
		userDir.On("ListAdmins", mock.Anything).Return(admins, nil)
		producer.On("Publish", mock.Anything, mock.MatchedBy(func(msg *EmailMessage) bool {
			return msg.RecipientEmail == "admin1@tripvia.id" && msg.Type == TypeBookingCreated
		})).Return(nil).Once()
		producer.On("Publish", mock.Anything, mock.MatchedBy(func(msg *EmailMessage) bool {
			return msg.RecipientEmail == "admin2@tripvia.id" && msg.Type == TypeBookingCreated
		})).Return(nil).Once()

		err := svc.BookingCreated(context.Background(), booking)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		producer.AssertExpectations(t)
		userDir.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("admin lookup failure still persists the broadcast", func(t *testing.T) {
		repo := new(MockRepository)
		producer := new(MockProducer)
		userDir := new(MockUserDirectory)
		svc := NewService(repo, producer, userDir)

		booking := testBooking()

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		userDir.On("ListAdmins", mock.Anything).Return(nil, assert.AnError)

		err := svc.BookingCreated(context.Background(), booking)

		assert.NoError(t, err)
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("a failed email fan-out does not fail the others", func(t *testing.T) {
		repo := new(MockRepository)
		producer := new(MockProducer)
		userDir := new(MockUserDirectory)
		svc := NewService(repo, producer, userDir)

		booking := testBooking()
		admins := []users.User{
			{ID: uuid.New(), Email: "admin1@tripvia.id", Role: users.RoleAdmin},
			{ID: uuid.New(), Email: "admin2@tripvia.id", Role: users.RoleAdmin},
		}

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		userDir.On("ListAdmins", mock.Anything).Return(admins, nil)
		producer.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError).Once()
		producer.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

		err := svc.BookingCreated(context.Background(), booking)

		assert.NoError(t, err)
		producer.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("persist failure is returned", func(t *testing.T) {
		repo := new(MockRepository)
		producer := new(MockProducer)
		userDir := new(MockUserDirectory)
		svc := NewService(repo, producer, userDir)

		booking := testBooking()

		repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		err := svc.BookingCreated(context.Background(), booking)

		assert.Error(t, err)
		userDir.AssertNotCalled(t, "ListAdmins", mock.Anything)
	})
}

func TestPaymentRejected(t *testing.T) {
	t.Run("reason is included in the message", func(t *testing.T) {
		repo := new(MockRepository)
		producer := new(MockProducer)
		userDir := new(MockUserDirectory)
		svc := NewService(repo, producer, userDir)

		booking := testBooking()
		booking.Status = bookings.StatusDitolak
		user := &users.User{ID: booking.UserID, Name: "Budi Santoso", Email: "budi@gmail.com"}

		// Owner-addressed, unlike the booking_created broadcast
		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *Notification) bool {
			return n.Type == TypePaymentRejected &&
				n.UserID != nil && *n.UserID == booking.UserID &&
				n.Message == "Bukti pembayaran Anda ditolak. Alasan: transfer tidak ditemukan"
		})).Return(nil)
		userDir.On("GetUserByID", mock.Anything, booking.UserID).Return(user, nil)
		producer.On("Publish", mock.Anything, mock.Anything).Return(nil)

		err := svc.PaymentRejected(context.Background(), booking, "transfer tidak ditemukan")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("empty reason uses the plain message", func(t *testing.T) {
		repo := new(MockRepository)
		producer := new(MockProducer)
		userDir := new(MockUserDirectory)
		svc := NewService(repo, producer, userDir)

		booking := testBooking()
		user := &users.User{ID: booking.UserID, Email: "budi@gmail.com"}

		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *Notification) bool {
			return n.Message == "Bukti pembayaran Anda ditolak."
		})).Return(nil)
		userDir.On("GetUserByID", mock.Anything, booking.UserID).Return(user, nil)
		producer.On("Publish", mock.Anything, mock.Anything).Return(nil)

		err := svc.PaymentRejected(context.Background(), booking, "")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestListUserNotifications(t *testing.T) {
	t.Run("returns items with unread count", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProducer), new(MockUserDirectory))

		userID := uuid.New()
		query := NotificationListQuery{Page: 1, Limit: 10}
		items := []Notification{
			{ID: uuid.New(), UserID: &userID, Type: TypePaymentApproved},
			{ID: uuid.New(), UserID: &userID, Type: TypePaymentRejected, IsRead: true},
		}

		repo.On("ListByUser", mock.Anything, userID, query).Return(items, int64(2), nil)
		repo.On("CountUnread", mock.Anything, userID).Return(int64(1), nil)

		result, err := svc.ListUserNotifications(context.Background(), userID, query)

		assert.NoError(t, err)
		assert.Len(t, result.Notifications, 2)
		assert.Equal(t, int64(1), result.UnreadCount)
		assert.Equal(t, 1, result.TotalPages)
	})
}

func TestListBroadcasts(t *testing.T) {
	t.Run("returns only nil-recipient records", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProducer), new(MockUserDirectory))

		query := NotificationListQuery{Page: 1, Limit: 10}
		items := []Notification{
			{ID: uuid.New(), Type: TypeBookingCreated},
			{ID: uuid.New(), Type: TypeBookingCreated, IsRead: true},
		}

		repo.On("ListBroadcasts", mock.Anything, query).Return(items, int64(2), nil)

		result, err := svc.ListBroadcasts(context.Background(), query)

		assert.NoError(t, err)
		assert.Len(t, result.Notifications, 2)
		assert.Nil(t, result.Notifications[0].UserID)
		assert.Equal(t, int64(1), result.UnreadCount)
		repo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProducer), new(MockUserDirectory))

		userID := uuid.New()
		notificationID := uuid.New()
		repo.On("MarkRead", mock.Anything, notificationID, userID).Return(true, nil)

		err := svc.MarkRead(context.Background(), userID, notificationID)

		assert.NoError(t, err)
	})

	t.Run("someone else's notification is not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProducer), new(MockUserDirectory))

		repo.On("MarkRead", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, ErrNotFound)
	})
}
