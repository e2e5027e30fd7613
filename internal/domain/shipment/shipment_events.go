package shipment

import (
	"github.com/parcelhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeShipment = "Shipment"

// Event type constants
const (
	EventTypeShipmentCreated       = "ShipmentCreated"
	EventTypeShipmentSynced        = "ShipmentSynced"
	EventTypeShipmentStatusChanged = "ShipmentStatusChanged"
)

// ShipmentCreatedEvent is raised when a new shipment is created
type ShipmentCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID int64        `json:"order_id"`
	Kind    ShipmentType `json:"shipment_type"`
}

// NewShipmentCreatedEvent creates a new ShipmentCreatedEvent
func NewShipmentCreatedEvent(s *Shipment) *ShipmentCreatedEvent {
	return &ShipmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentCreated, AggregateTypeShipment, s.ID),
		OrderID:         s.OrderID,
		Kind:            s.Type,
	}
}

// EventType returns the event type name
func (e *ShipmentCreatedEvent) EventType() string {
	return EventTypeShipmentCreated
}

// ShipmentItemInfo represents item information for events
type ShipmentItemInfo struct {
	ItemID      int64           `json:"item_id"`
	OrderItemID int64           `json:"order_item_id"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	ItemWeight  decimal.Decimal `json:"item_weight"`
	ItemTotal   decimal.Decimal `json:"item_total"`
}

// ShipmentSyncedEvent is raised after a shipment was refreshed from its order
type ShipmentSyncedEvent struct {
	shared.BaseDomainEvent
	OrderID int64              `json:"order_id"`
	Items   []ShipmentItemInfo `json:"items"`
	Weight  decimal.Decimal    `json:"weight"`
	Total   decimal.Decimal    `json:"total"`
}

// NewShipmentSyncedEvent creates a new ShipmentSyncedEvent
func NewShipmentSyncedEvent(s *Shipment) *ShipmentSyncedEvent {
	items := make([]ShipmentItemInfo, len(s.Items))
	for i, item := range s.Items {
		items[i] = ShipmentItemInfo{
			ItemID:      item.ID,
			OrderItemID: item.OrderItemID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			ItemWeight:  item.GetItemWeight(),
			ItemTotal:   item.GetItemTotal(),
		}
	}
	return &ShipmentSyncedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentSynced, AggregateTypeShipment, s.ID),
		OrderID:         s.OrderID,
		Items:           items,
		Weight:          s.GetWeight(),
		Total:           s.GetTotal(),
	}
}

// EventType returns the event type name
func (e *ShipmentSyncedEvent) EventType() string {
	return EventTypeShipmentSynced
}

// ShipmentStatusChangedEvent is raised on every status transition
type ShipmentStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        int64          `json:"order_id"`
	PreviousStatus ShipmentStatus `json:"previous_status"`
	NewStatus      ShipmentStatus `json:"new_status"`
}

// NewShipmentStatusChangedEvent creates a new ShipmentStatusChangedEvent
func NewShipmentStatusChangedEvent(s *Shipment, previous ShipmentStatus) *ShipmentStatusChangedEvent {
	return &ShipmentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentStatusChanged, AggregateTypeShipment, s.ID),
		OrderID:         s.OrderID,
		PreviousStatus:  previous,
		NewStatus:       s.Status,
	}
}

// EventType returns the event type name
func (e *ShipmentStatusChangedEvent) EventType() string {
	return EventTypeShipmentStatusChanged
}
