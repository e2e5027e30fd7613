package shipment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/parcelhub/backend/internal/domain/shared"
	"github.com/parcelhub/backend/internal/domain/shipment"
)

// ShipmentService handles shipment business operations
type ShipmentService struct {
	shipmentRepo   shipment.ShipmentRepository
	syncEngine     *shipment.SyncEngine
	eventPublisher shared.EventPublisher
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(shipmentRepo shipment.ShipmentRepository) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		syncEngine:   shipment.NewSyncEngine(shipmentRepo),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ShipmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft shipment for an order and persists it
func (s *ShipmentService) Create(ctx context.Context, orderID int64, shipmentType shipment.ShipmentType) (*shipment.Shipment, error) {
	sh, err := shipment.NewShipment(orderID, shipmentType)
	if err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.Save(ctx, sh); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sh)
	return sh, nil
}

// CreateFromOrder creates a shipment and immediately fills it from the
// order snapshot. When the order has nothing left to ship the shipment
// is not persisted and an error is returned.
func (s *ShipmentService) CreateFromOrder(ctx context.Context, order *shipment.Order, shipmentType shipment.ShipmentType) (*shipment.Shipment, error) {
	if order == nil {
		return nil, shared.ErrInvalidInput
	}

	sh, err := shipment.NewShipment(order.ID, shipmentType)
	if err != nil {
		return nil, err
	}
	if err := s.syncEngine.SyncFromOrder(ctx, sh, order); err != nil {
		return nil, err
	}
	if sh.ItemCount() == 0 {
		return nil, shared.NewDomainError("NOTHING_TO_SHIP", "Order has no shippable quantity left")
	}

	if err := s.shipmentRepo.Save(ctx, sh); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sh)
	return sh, nil
}

// Get retrieves a shipment by ID
func (s *ShipmentService) Get(ctx context.Context, shipmentID int64) (*shipment.Shipment, error) {
	return s.shipmentRepo.FindByID(ctx, shipmentID)
}

// ListForOrder retrieves all shipments of an order
func (s *ShipmentService) ListForOrder(ctx context.Context, orderID int64) ([]shipment.Shipment, error) {
	return s.shipmentRepo.FindByOrder(ctx, orderID)
}

// List retrieves shipments matching the filter, with the total count.
// Missing pagination values fall back to the defaults so the page math
// never sees a zero page size.
func (s *ShipmentService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[shipment.Shipment], error) {
	var empty shared.Paginated[shipment.Shipment]

	defaults := shared.DefaultFilter()
	if filter.Page <= 0 {
		filter.Page = defaults.Page
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaults.PageSize
	}

	shipments, err := s.shipmentRepo.FindAll(ctx, filter)
	if err != nil {
		return empty, err
	}
	total, err := s.shipmentRepo.Count(ctx, filter)
	if err != nil {
		return empty, err
	}

	return shared.NewPaginated(shipments, total, filter.Page, filter.PageSize), nil
}

// Sync refreshes a stored shipment from its order snapshot
func (s *ShipmentService) Sync(ctx context.Context, shipmentID int64, order *shipment.Order) (*shipment.Shipment, error) {
	sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	if err := s.syncEngine.SyncFromOrder(ctx, sh, order); err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.Save(ctx, sh); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sh)
	return sh, nil
}

// UpdateStatus transitions a shipment to a new status
func (s *ShipmentService) UpdateStatus(ctx context.Context, shipmentID int64, status shipment.ShipmentStatus) (*shipment.Shipment, error) {
	sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	if err := sh.UpdateStatus(status); err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.Save(ctx, sh); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sh)
	return sh, nil
}

// SetPackaging assigns packaging and its tare weight to a shipment
func (s *ShipmentService) SetPackaging(ctx context.Context, shipmentID, packagingID int64, packagingWeight decimal.Decimal) (*shipment.Shipment, error) {
	sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	if err := sh.SetPackagingID(packagingID); err != nil {
		return nil, err
	}
	if err := sh.SetPackagingWeight(packagingWeight); err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.Save(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// Delete removes a shipment
func (s *ShipmentService) Delete(ctx context.Context, shipmentID int64) error {
	return s.shipmentRepo.Delete(ctx, shipmentID)
}

// publishEvents publishes and clears the aggregate's pending events
func (s *ShipmentService) publishEvents(ctx context.Context, sh *shipment.Shipment) {
	if s.eventPublisher == nil {
		sh.ClearDomainEvents()
		return
	}
	for _, event := range sh.GetDomainEvents() {
		// Event delivery is best effort; the state change already
		// committed.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	sh.ClearDomainEvents()
}
