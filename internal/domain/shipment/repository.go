package shipment

import (
	"context"

	"github.com/parcelhub/backend/internal/domain/shared"
)

// ShipmentRepository defines the persistence operations for shipments.
// Filter supports at least: "type", "status", "order_id",
// "created_after", "created_before".
type ShipmentRepository interface {
	FindByID(ctx context.Context, id int64) (*Shipment, error)
	FindByOrder(ctx context.Context, orderID int64) ([]Shipment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Shipment, error)
	Save(ctx context.Context, s *Shipment) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
