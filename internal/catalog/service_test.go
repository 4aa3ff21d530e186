package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tripvia/internal/bookings"
	"tripvia/internal/shared/config"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTrip(ctx context.Context, trip *Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockRepository) GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trip), args.Error(1)
}

func (m *MockRepository) GetAllTrips(ctx context.Context, query CatalogListQuery) ([]Trip, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Trip), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateTrip(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Trip, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trip), args.Error(1)
}

func (m *MockRepository) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateTravel(ctx context.Context, travel *Travel) error {
	args := m.Called(ctx, travel)
	return args.Error(0)
}

func (m *MockRepository) GetTravelByID(ctx context.Context, id uuid.UUID) (*Travel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Travel), args.Error(1)
}

func (m *MockRepository) GetAllTravels(ctx context.Context, query CatalogListQuery) ([]Travel, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Travel), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateTravel(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Travel, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Travel), args.Error(1)
}

func (m *MockRepository) DeleteTravel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testService(repo Repository) Service {
	return NewService(repo, config.BookingConfig{
		TripPricing:   config.PricingPerParticipant,
		TravelPricing: config.PricingFlat,
	})
}

func TestGetItem(t *testing.T) {
	t.Run("trip snapshot carries per-participant pricing and remaining quota", func(t *testing.T) {
		repo := new(MockRepository)
		svc := testService(repo)

		tripID := uuid.New()
		repo.On("GetTripByID", mock.Anything, tripID).Return(&Trip{
			ID: tripID, Name: "Dieng Camping", Price: 750000,
			Quota: 20, BookedCount: 15, Active: true,
		}, nil)

		item, err := svc.GetItem(context.Background(), bookings.CatalogTrip, tripID)

		require.NoError(t, err)
		assert.Equal(t, bookings.CatalogTrip, item.Type)
		assert.Equal(t, config.PricingPerParticipant, item.PricingMode)
		assert.Equal(t, 5, item.Quota)
		assert.True(t, item.Active)
	})

	t.Run("travel snapshot carries flat pricing", func(t *testing.T) {
		repo := new(MockRepository)
		svc := testService(repo)

		travelID := uuid.New()
		repo.On("GetTravelByID", mock.Anything, travelID).Return(&Travel{
			ID: travelID, Name: "Jakarta - Bandung", Price: 150000, Active: true,
		}, nil)

		item, err := svc.GetItem(context.Background(), bookings.CatalogTravel, travelID)

		require.NoError(t, err)
		assert.Equal(t, config.PricingFlat, item.PricingMode)
		assert.Equal(t, float64(150000), item.Price)
	})

	t.Run("missing trip maps to catalog not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := testService(repo)

		tripID := uuid.New()
		repo.On("GetTripByID", mock.Anything, tripID).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetItem(context.Background(), bookings.CatalogTrip, tripID)
		assert.ErrorIs(t, err, bookings.ErrCatalogNotFound)
	})

	t.Run("unknown catalog type maps to catalog not found", func(t *testing.T) {
		svc := testService(new(MockRepository))

		_, err := svc.GetItem(context.Background(), bookings.CatalogType("hotel"), uuid.New())
		assert.ErrorIs(t, err, bookings.ErrCatalogNotFound)
	})
}
