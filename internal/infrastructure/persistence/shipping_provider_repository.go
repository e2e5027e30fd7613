package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/parcelhub/backend/internal/domain/shared"
	"github.com/parcelhub/backend/internal/domain/shipping"
	"gorm.io/gorm"
)

// providerMetaRow backs the shipping_provider_meta key/value table
type providerMetaRow struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	ProviderID int64 `gorm:"index"`
	MetaKey    string
	MetaValue  string
}

func (providerMetaRow) TableName() string { return "shipping_provider_meta" }

// GormShippingProviderRepository implements shipping.ProviderRepository
// using GORM
type GormShippingProviderRepository struct {
	db *gorm.DB
}

// NewGormShippingProviderRepository creates a new repository instance
func NewGormShippingProviderRepository(db *gorm.DB) *GormShippingProviderRepository {
	return &GormShippingProviderRepository{db: db}
}

// FindByID finds a provider by its ID
func (r *GormShippingProviderRepository) FindByID(ctx context.Context, id int64) (*shipping.ShippingProvider, error) {
	var p shipping.ShippingProvider
	if err := r.db.WithContext(ctx).
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadMeta(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByKey finds a provider by its carrier key
func (r *GormShippingProviderRepository) FindByKey(ctx context.Context, key string) (*shipping.ShippingProvider, error) {
	var p shipping.ShippingProvider
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadMeta(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll finds providers matching the filter; the "enabled" filter key
// restricts to enabled/disabled providers.
func (r *GormShippingProviderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.ShippingProvider, error) {
	var providers []shipping.ShippingProvider
	query := r.db.WithContext(ctx).Model(&shipping.ShippingProvider{})

	for key, value := range filter.Filters {
		switch key {
		case "enabled":
			query = query.Where("enabled = ?", value)
		}
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("key ILIKE ? OR label ILIKE ?", pattern, pattern)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ShippingProviderSortFields, "key")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("key ASC")
	}

	if err := query.Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// Save creates or updates a provider with its meta rows
func (r *GormShippingProviderRepository) Save(ctx context.Context, p *shipping.ShippingProvider) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p.UpdatedAt = time.Now()
		if err := tx.Save(p).Error; err != nil {
			return err
		}

		if err := tx.Where("provider_id = ?", p.ID).Delete(&providerMetaRow{}).Error; err != nil {
			return err
		}
		for key, value := range p.Meta {
			row := providerMetaRow{ProviderID: p.ID, MetaKey: key, MetaValue: value}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a provider and its meta rows
func (r *GormShippingProviderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", id).Delete(&providerMetaRow{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&shipping.ShippingProvider{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormShippingProviderRepository) loadMeta(ctx context.Context, p *shipping.ShippingProvider) error {
	var rows []providerMetaRow
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", p.ID).
		Find(&rows).Error; err != nil {
		return err
	}
	p.Meta = shared.NewMeta()
	for _, row := range rows {
		p.Meta.Set(row.MetaKey, row.MetaValue)
	}
	return nil
}

// Ensure GormShippingProviderRepository implements shipping.ProviderRepository
var _ shipping.ProviderRepository = (*GormShippingProviderRepository)(nil)
