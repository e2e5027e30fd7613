package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/parcelhub/backend/internal/domain/shared"
	"github.com/parcelhub/backend/internal/domain/shipment"
	"gorm.io/gorm"
)

// shipmentMetaRow backs the shipment_meta key/value table
type shipmentMetaRow struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	ShipmentID int64 `gorm:"index"`
	MetaKey    string
	MetaValue  string
}

func (shipmentMetaRow) TableName() string { return "shipment_meta" }

// shipmentItemMetaRow backs the shipment_item_meta key/value table
type shipmentItemMetaRow struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ItemID    int64 `gorm:"index"`
	MetaKey   string
	MetaValue string
}

func (shipmentItemMetaRow) TableName() string { return "shipment_item_meta" }

// GormShipmentRepository implements shipment.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment by its ID, including items and meta
func (r *GormShipmentRepository) FindByID(ctx context.Context, id int64) (*shipment.Shipment, error) {
	var s shipment.Shipment
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadMeta(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByOrder finds all shipments referencing an order, with items.
// Meta attributes are not loaded on list reads.
func (r *GormShipmentRepository) FindByOrder(ctx context.Context, orderID int64) ([]shipment.Shipment, error) {
	var shipments []shipment.Shipment
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// FindAll finds shipments matching the filter
func (r *GormShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipment.Shipment, error) {
	var shipments []shipment.Shipment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&shipment.Shipment{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// Save creates or updates a shipment. Header, full item replacement set,
// and meta rows commit atomically; a reader never observes a shipment
// with a partial item set.
func (r *GormShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s.UpdatedAt = time.Now()
		if err := tx.Omit("Items").Save(s).Error; err != nil {
			return err
		}

		// Replace the item set: delete rows no longer present, upsert
		// the rest.
		currentItemIDs := make([]int64, 0, len(s.Items))
		for i := range s.Items {
			if s.Items[i].ID != 0 {
				currentItemIDs = append(currentItemIDs, s.Items[i].ID)
			}
		}

		staleItems := tx.Where("shipment_id = ?", s.ID)
		if len(currentItemIDs) > 0 {
			staleItems = staleItems.Where("id NOT IN ?", currentItemIDs)
		}
		var removed []shipment.ShipmentItem
		if err := staleItems.Find(&removed).Error; err != nil {
			return err
		}
		for i := range removed {
			if err := tx.Where("item_id = ?", removed[i].ID).Delete(&shipmentItemMetaRow{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&removed[i]).Error; err != nil {
				return err
			}
		}

		for i := range s.Items {
			s.Items[i].ShipmentID = s.ID
			if err := tx.Save(&s.Items[i]).Error; err != nil {
				return err
			}
			if err := replaceMeta(tx, &shipmentItemMetaRow{}, "item_id", s.Items[i].ID, s.Items[i].Meta); err != nil {
				return err
			}
		}

		return replaceMeta(tx, &shipmentMetaRow{}, "shipment_id", s.ID, s.Meta)
	})
}

// Delete removes a shipment with its items and meta rows
func (r *GormShipmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemIDs []int64
		if err := tx.Model(&shipment.ShipmentItem{}).
			Where("shipment_id = ?", id).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("item_id IN ?", itemIDs).Delete(&shipmentItemMetaRow{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("shipment_id = ?", id).Delete(&shipment.ShipmentItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shipment_id = ?", id).Delete(&shipmentMetaRow{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&shipment.Shipment{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts shipments matching the filter
func (r *GormShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&shipment.Shipment{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// loadMeta populates the shipment's meta map and those of its items
func (r *GormShipmentRepository) loadMeta(ctx context.Context, s *shipment.Shipment) error {
	var rows []shipmentMetaRow
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", s.ID).
		Find(&rows).Error; err != nil {
		return err
	}
	s.Meta = shared.NewMeta()
	for _, row := range rows {
		s.Meta.Set(row.MetaKey, row.MetaValue)
	}

	itemIDs := make([]int64, 0, len(s.Items))
	for i := range s.Items {
		s.Items[i].Meta = shared.NewMeta()
		itemIDs = append(itemIDs, s.Items[i].ID)
	}
	if len(itemIDs) == 0 {
		return nil
	}

	var itemRows []shipmentItemMetaRow
	if err := r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Find(&itemRows).Error; err != nil {
		return err
	}
	for _, row := range itemRows {
		for i := range s.Items {
			if s.Items[i].ID == row.ItemID {
				s.Items[i].Meta.Set(row.MetaKey, row.MetaValue)
				break
			}
		}
	}
	return nil
}

// replaceMeta swaps the stored meta rows of one owner for the current map
func replaceMeta(tx *gorm.DB, model interface{}, ownerColumn string, ownerID int64, meta shared.Meta) error {
	if err := tx.Where(ownerColumn+" = ?", ownerID).Delete(model).Error; err != nil {
		return err
	}
	for key, value := range meta {
		var row interface{}
		switch model.(type) {
		case *shipmentMetaRow:
			row = &shipmentMetaRow{ShipmentID: ownerID, MetaKey: key, MetaValue: value}
		case *shipmentItemMetaRow:
			row = &shipmentItemMetaRow{ItemID: ownerID, MetaKey: key, MetaValue: value}
		default:
			return shared.ErrInvalidInput
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormShipmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ShipmentSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormShipmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "created_after":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at > ?", t)
			}
		case "created_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at < ?", t)
			}
		}
	}

	return query
}

// Ensure GormShipmentRepository implements shipment.ShipmentRepository
var _ shipment.ShipmentRepository = (*GormShipmentRepository)(nil)
