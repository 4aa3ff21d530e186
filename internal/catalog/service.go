package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripvia/internal/bookings"
	"tripvia/internal/shared/config"
	"tripvia/internal/shared/constants"
	"tripvia/pkg/cache"
)

var ErrNotFound = errors.New("catalog item not found")

type Service interface {
	SetCacheService(cacheService cache.Service)

	// GetItem resolves a catalog reference to a pricing snapshot for the
	// booking engine. Unknown or missing items report ErrCatalogNotFound.
	GetItem(ctx context.Context, catalogType bookings.CatalogType, id uuid.UUID) (*bookings.CatalogItem, error)

	CreateTrip(ctx context.Context, req CreateTripRequest) (*TripResponse, error)
	GetTripByID(ctx context.Context, id uuid.UUID) (*TripResponse, error)
	GetAllTrips(ctx context.Context, query CatalogListQuery) (*PaginatedTrips, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, req UpdateTripRequest) (*TripResponse, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error

	CreateTravel(ctx context.Context, req CreateTravelRequest) (*TravelResponse, error)
	GetTravelByID(ctx context.Context, id uuid.UUID) (*TravelResponse, error)
	GetAllTravels(ctx context.Context, query CatalogListQuery) (*PaginatedTravels, error)
	UpdateTravel(ctx context.Context, id uuid.UUID, req UpdateTravelRequest) (*TravelResponse, error)
	DeleteTravel(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo          Repository
	cacheService  cache.Service
	tripPricing   string
	travelPricing string
}

func NewService(repo Repository, bookingCfg config.BookingConfig) Service {
	return &service{
		repo:          repo,
		tripPricing:   bookingCfg.TripPricing,
		travelPricing: bookingCfg.TravelPricing,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		slog.Warn("failed to cache catalog data", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_CATALOG); err != nil {
		slog.Warn("failed to invalidate catalog cache", slog.Any("error", err))
	}
}

// GetItem bypasses the response cache on purpose: the booking engine
// prices against the current row, not a snapshot up to two hours old.
func (s *service) GetItem(ctx context.Context, catalogType bookings.CatalogType, id uuid.UUID) (*bookings.CatalogItem, error) {
	switch catalogType {
	case bookings.CatalogTrip:
		trip, err := s.repo.GetTripByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, bookings.ErrCatalogNotFound
			}
			return nil, fmt.Errorf("failed to get trip: %w", err)
		}

		available := trip.Quota - trip.BookedCount
		if available < 0 {
			available = 0
		}

		return &bookings.CatalogItem{
			ID:          trip.ID,
			Type:        bookings.CatalogTrip,
			Name:        trip.Name,
			Price:       trip.Price,
			Quota:       available,
			Active:      trip.Active,
			PricingMode: s.tripPricing,
		}, nil

	case bookings.CatalogTravel:
		travel, err := s.repo.GetTravelByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, bookings.ErrCatalogNotFound
			}
			return nil, fmt.Errorf("failed to get travel: %w", err)
		}

		return &bookings.CatalogItem{
			ID:          travel.ID,
			Type:        bookings.CatalogTravel,
			Name:        travel.Name,
			Price:       travel.Price,
			Active:      travel.Active,
			PricingMode: s.travelPricing,
		}, nil

	default:
		return nil, bookings.ErrCatalogNotFound
	}
}

func (s *service) CreateTrip(ctx context.Context, req CreateTripRequest) (*TripResponse, error) {
	trip := &Trip{
		Name:         req.Name,
		Description:  req.Description,
		Destination:  req.Destination,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Quota:        req.Quota,
		Active:       true,
		ImageURL:     req.ImageURL,
	}

	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.invalidateCatalogCache(ctx)

	response := trip.ToResponse()
	return &response, nil
}

func (s *service) GetTripByID(ctx context.Context, id uuid.UUID) (*TripResponse, error) {
	cacheKey := constants.BuildTripDetailKey(id.String())

	var cached TripResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	trip, err := s.repo.GetTripByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	response := trip.ToResponse()
	s.setCache(ctx, cacheKey, response, constants.TTL_CATALOG_DETAIL)

	return &response, nil
}

func (s *service) GetAllTrips(ctx context.Context, query CatalogListQuery) (*PaginatedTrips, error) {
	page, limit := normalizePage(query)

	cacheKey := ""
	if query.Search == "" {
		cacheKey = constants.BuildTripListKey(page, limit)
		var cached PaginatedTrips
		if err := s.getCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	trips, totalCount, err := s.repo.GetAllTrips(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get trips: %w", err)
	}

	responses := make([]TripResponse, len(trips))
	for i := range trips {
		responses[i] = trips[i].ToResponse()
	}

	result := &PaginatedTrips{
		Trips:      responses,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(limit))),
	}

	if cacheKey != "" {
		s.setCache(ctx, cacheKey, result, constants.TTL_CATALOG_LIST)
	}

	return result, nil
}

func (s *service) UpdateTrip(ctx context.Context, id uuid.UUID, req UpdateTripRequest) (*TripResponse, error) {
	if _, err := s.repo.GetTripByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Destination != nil {
		updates["destination"] = *req.Destination
	}
	if req.DurationDays != nil {
		updates["duration_days"] = *req.DurationDays
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Quota != nil {
		updates["quota"] = *req.Quota
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	updates["updated_at"] = time.Now()

	trip, err := s.repo.UpdateTrip(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	s.invalidateCatalogCache(ctx)

	response := trip.ToResponse()
	return &response, nil
}

func (s *service) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTrip(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

func (s *service) CreateTravel(ctx context.Context, req CreateTravelRequest) (*TravelResponse, error) {
	travel := &Travel{
		Name:        req.Name,
		Origin:      req.Origin,
		Destination: req.Destination,
		Schedule:    req.Schedule,
		Price:       req.Price,
		Active:      true,
		ImageURL:    req.ImageURL,
	}

	if err := s.repo.CreateTravel(ctx, travel); err != nil {
		return nil, fmt.Errorf("failed to create travel: %w", err)
	}

	s.invalidateCatalogCache(ctx)

	response := travel.ToResponse()
	return &response, nil
}

func (s *service) GetTravelByID(ctx context.Context, id uuid.UUID) (*TravelResponse, error) {
	cacheKey := constants.BuildTravelDetailKey(id.String())

	var cached TravelResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	travel, err := s.repo.GetTravelByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get travel: %w", err)
	}

	response := travel.ToResponse()
	s.setCache(ctx, cacheKey, response, constants.TTL_CATALOG_DETAIL)

	return &response, nil
}

func (s *service) GetAllTravels(ctx context.Context, query CatalogListQuery) (*PaginatedTravels, error) {
	page, limit := normalizePage(query)

	cacheKey := ""
	if query.Search == "" {
		cacheKey = constants.BuildTravelListKey(page, limit)
		var cached PaginatedTravels
		if err := s.getCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	travels, totalCount, err := s.repo.GetAllTravels(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get travels: %w", err)
	}

	responses := make([]TravelResponse, len(travels))
	for i := range travels {
		responses[i] = travels[i].ToResponse()
	}

	result := &PaginatedTravels{
		Travels:    responses,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(limit))),
	}

	if cacheKey != "" {
		s.setCache(ctx, cacheKey, result, constants.TTL_CATALOG_LIST)
	}

	return result, nil
}

func (s *service) UpdateTravel(ctx context.Context, id uuid.UUID, req UpdateTravelRequest) (*TravelResponse, error) {
	if _, err := s.repo.GetTravelByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get travel: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Origin != nil {
		updates["origin"] = *req.Origin
	}
	if req.Destination != nil {
		updates["destination"] = *req.Destination
	}
	if req.Schedule != nil {
		updates["schedule"] = *req.Schedule
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	updates["updated_at"] = time.Now()

	travel, err := s.repo.UpdateTravel(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update travel: %w", err)
	}

	s.invalidateCatalogCache(ctx)

	response := travel.ToResponse()
	return &response, nil
}

func (s *service) DeleteTravel(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTravel(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete travel: %w", err)
	}

	s.invalidateCatalogCache(ctx)
	return nil
}
