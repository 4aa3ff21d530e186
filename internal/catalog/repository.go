package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateTrip(ctx context.Context, trip *Trip) error
	GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	GetAllTrips(ctx context.Context, query CatalogListQuery) ([]Trip, int64, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error

	CreateTravel(ctx context.Context, travel *Travel) error
	GetTravelByID(ctx context.Context, id uuid.UUID) (*Travel, error)
	GetAllTravels(ctx context.Context, query CatalogListQuery) ([]Travel, int64, error)
	UpdateTravel(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Travel, error)
	DeleteTravel(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTrip(ctx context.Context, trip *Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *repository) GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	var trip Trip
	if err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *repository) GetAllTrips(ctx context.Context, query CatalogListQuery) ([]Trip, int64, error) {
	var trips []Trip
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Trip{})
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR destination ILIKE ?", search, search)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(query)
	err := db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}

	return trips, totalCount, nil
}

func (r *repository) UpdateTrip(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Trip, error) {
	if err := r.db.WithContext(ctx).Model(&Trip{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetTripByID(ctx, id)
}

func (r *repository) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Trip{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateTravel(ctx context.Context, travel *Travel) error {
	return r.db.WithContext(ctx).Create(travel).Error
}

func (r *repository) GetTravelByID(ctx context.Context, id uuid.UUID) (*Travel, error) {
	var travel Travel
	if err := r.db.WithContext(ctx).First(&travel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &travel, nil
}

func (r *repository) GetAllTravels(ctx context.Context, query CatalogListQuery) ([]Travel, int64, error) {
	var travels []Travel
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Travel{})
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR origin ILIKE ? OR destination ILIKE ?", search, search, search)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(query)
	err := db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&travels).Error
	if err != nil {
		return nil, 0, err
	}

	return travels, totalCount, nil
}

func (r *repository) UpdateTravel(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Travel, error) {
	if err := r.db.WithContext(ctx).Model(&Travel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetTravelByID(ctx, id)
}

func (r *repository) DeleteTravel(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Travel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizePage(query CatalogListQuery) (page, limit int) {
	page = query.Page
	if page <= 0 {
		page = 1
	}
	limit = query.Limit
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}
