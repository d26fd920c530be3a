package shipping

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lymstore/storefront/internal/domain"
)

// ZoneRepository handles database operations for shipping zones
type ZoneRepository interface {
	// ActiveZones returns every zone flagged active
	ActiveZones(ctx context.Context) ([]domain.ShippingZone, error)

	// List returns all zones ordered by province and name
	List(ctx context.Context) ([]domain.ShippingZone, error)

	GetByID(ctx context.Context, id int64) (*domain.ShippingZone, error)
	Create(ctx context.Context, zone *domain.ShippingZone) error
	Update(ctx context.Context, zone *domain.ShippingZone) error
	Delete(ctx context.Context, id int64) error
}

// GormZoneRepository is the GORM implementation of ZoneRepository
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GORM-based zone repository
func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

func (r *GormZoneRepository) ActiveZones(ctx context.Context) ([]domain.ShippingZone, error) {
	var zones []domain.ShippingZone
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&zones).Error
	if err != nil {
		return nil, domain.DatabaseError(err, "failed to query shipping zones")
	}
	return zones, nil
}

func (r *GormZoneRepository) List(ctx context.Context) ([]domain.ShippingZone, error) {
	var zones []domain.ShippingZone
	err := r.db.WithContext(ctx).
		Order("province ASC").
		Order("zone_name ASC").
		Find(&zones).Error
	if err != nil {
		return nil, domain.DatabaseError(err, "failed to query shipping zones")
	}
	return zones, nil
}

func (r *GormZoneRepository) GetByID(ctx context.Context, id int64) (*domain.ShippingZone, error) {
	var zone domain.ShippingZone
	err := r.db.WithContext(ctx).First(&zone, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("shipping zone %d not found", id)
	} else if err != nil {
		return nil, domain.DatabaseError(err, "failed to query shipping zone")
	}
	return &zone, nil
}

func (r *GormZoneRepository) Create(ctx context.Context, zone *domain.ShippingZone) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(zone).Error; err != nil {
		return domain.DatabaseError(err, "failed to create shipping zone")
	}
	return nil
}

func (r *GormZoneRepository) Update(ctx context.Context, zone *domain.ShippingZone) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	zone.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&domain.ShippingZone{}).
		Where("id = ?", zone.ID).
		Select("zone_name", "postal_code_start", "postal_code_end", "province", "base_cost",
			"cost_per_kg", "estimated_days", "carrier", "active", "updated_at").
		Updates(zone)
	if res.Error != nil {
		return domain.DatabaseError(res.Error, "failed to update shipping zone")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("shipping zone %d not found", zone.ID)
	}
	return nil
}

func (r *GormZoneRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.ShippingZone{}, id)
	if res.Error != nil {
		return domain.DatabaseError(res.Error, "failed to delete shipping zone")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("shipping zone %d not found", id)
	}
	return nil
}

func validateZone(zone *domain.ShippingZone) error {
	switch {
	case zone.ZoneName == "":
		return domain.InvalidInput("zone name is required")
	case !zone.BaseCost.IsPositive():
		return domain.InvalidInput("base cost must be greater than zero")
	case zone.PostalCodeStart < 0 || zone.PostalCodeEnd < zone.PostalCodeStart:
		return domain.InvalidInput("invalid postal code range %d-%d", zone.PostalCodeStart, zone.PostalCodeEnd)
	case zone.EstimatedDays < 0:
		return domain.InvalidInput("estimated days cannot be negative")
	}
	return nil
}
