package shipment

import (
	"fmt"
	"time"

	"github.com/parcelhub/backend/internal/domain/shared"
	"github.com/parcelhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ShipmentType distinguishes outbound shipments from returns
type ShipmentType string

const (
	TypeSimple ShipmentType = "simple"
	TypeReturn ShipmentType = "return"
)

// IsValid checks if the type is a known ShipmentType
func (t ShipmentType) IsValid() bool {
	return t == TypeSimple || t == TypeReturn
}

// String returns the string representation of ShipmentType
func (t ShipmentType) String() string {
	return string(t)
}

// ShipmentStatus represents the status of a shipment
type ShipmentStatus string

const (
	StatusDraft      ShipmentStatus = "draft"
	StatusProcessing ShipmentStatus = "processing"
	StatusShipped    ShipmentStatus = "shipped"
	StatusDelivered  ShipmentStatus = "delivered"
	StatusReturned   ShipmentStatus = "returned"
)

// IsValid checks if the status is a known ShipmentStatus
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusProcessing, StatusShipped, StatusDelivered, StatusReturned:
		return true
	}
	return false
}

// String returns the string representation of ShipmentStatus
func (s ShipmentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusProcessing || target == StatusShipped
	case StatusProcessing:
		return target == StatusShipped
	case StatusShipped:
		return target == StatusDelivered || target == StatusReturned
	case StatusDelivered, StatusReturned:
		return false
	}
	return false
}

// Shipment is the aggregate root for one physical package (outbound or
// return) tied to an order. Weight and total are cached aggregates that
// are recomputed on every item mutation, so the getters are plain reads.
type Shipment struct {
	shared.BaseAggregateRoot
	Type            ShipmentType
	OrderID         int64
	Status          ShipmentStatus
	Address         valueobject.Address `gorm:"type:jsonb"`
	PackagingID     int64
	PackagingWeight decimal.Decimal
	Weight          decimal.Decimal
	Total           decimal.Decimal
	Items           []ShipmentItem `gorm:"foreignKey:ShipmentID"`
	Meta            shared.Meta    `gorm:"-"`
}

// NewShipment creates a transient shipment bound to an order. The
// address stays empty until the shipment is synced from its order.
func NewShipment(orderID int64, shipmentType ShipmentType) (*Shipment, error) {
	if orderID <= 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order reference cannot be empty")
	}
	if !shipmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Unknown shipment type %q", shipmentType))
	}

	s := &Shipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              shipmentType,
		OrderID:           orderID,
		Status:            StatusDraft,
		Address:           valueobject.EmptyAddress(),
		PackagingWeight:   decimal.Zero,
		Weight:            decimal.Zero,
		Total:             decimal.Zero,
		Items:             make([]ShipmentItem, 0),
		Meta:              shared.NewMeta(),
	}

	s.AddDomainEvent(NewShipmentCreatedEvent(s))

	return s, nil
}

// AddItem adds a new item to the shipment and recomputes the cached
// weight and total. Each order line may appear at most once.
func (s *Shipment) AddItem(item *ShipmentItem) error {
	if item == nil {
		return shared.ErrInvalidInput
	}
	for _, existing := range s.Items {
		if existing.OrderItemID == item.OrderItemID {
			return shared.NewDomainError("DUPLICATE_ORDER_ITEM", "Order line already packed into this shipment")
		}
	}

	item.ShipmentID = s.ID
	s.Items = append(s.Items, *item)
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return nil
}

// RemoveItem removes an item by its ID and recomputes the cached
// totals. Unsaved items all carry ID 0 and cannot be addressed this
// way; use RemoveItemByOrderItem for them.
func (s *Shipment) RemoveItem(itemID int64) error {
	if itemID <= 0 {
		return shared.NewDomainError("INVALID_ITEM", "Item reference cannot be empty")
	}
	for idx, item := range s.Items {
		if item.ID == itemID {
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Shipment item not found")
}

// RemoveItemByOrderItem removes the item referencing an order line and
// recomputes the cached totals. Works for unsaved items too.
func (s *Shipment) RemoveItemByOrderItem(orderItemID int64) error {
	for idx := range s.Items {
		if s.Items[idx].OrderItemID == orderItemID {
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Shipment item not found")
}

// UpdateItemQuantity changes the shipped quantity of one item
func (s *Shipment) UpdateItemQuantity(itemID int64, quantity int) error {
	if itemID <= 0 {
		return shared.NewDomainError("INVALID_ITEM", "Item reference cannot be empty")
	}
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			if err := s.Items[idx].setQuantity(quantity); err != nil {
				return err
			}
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Shipment item not found")
}

// GetItems returns the owned item collection
func (s *Shipment) GetItems() []ShipmentItem {
	return s.Items
}

// GetItem returns an item by its ID
func (s *Shipment) GetItem(itemID int64) *ShipmentItem {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// GetItemByOrderItem returns the item referencing an order line
func (s *Shipment) GetItemByOrderItem(orderItemID int64) *ShipmentItem {
	for idx := range s.Items {
		if s.Items[idx].OrderItemID == orderItemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of items in the shipment
func (s *Shipment) ItemCount() int {
	return len(s.Items)
}

// SetAddress replaces the address snapshot
func (s *Shipment) SetAddress(addr valueobject.Address) {
	s.Address = addr
	s.UpdatedAt = time.Now()
}

// SetPackagingID sets the packaging reference (0 = none). Clearing the
// packaging does NOT reset the packaging weight; the two fields are
// independent and callers that want both cleared must set both.
func (s *Shipment) SetPackagingID(packagingID int64) error {
	if packagingID < 0 {
		return shared.NewDomainError("INVALID_PACKAGING", "Packaging reference cannot be negative")
	}
	s.PackagingID = packagingID
	s.UpdatedAt = time.Now()
	return nil
}

// SetPackagingWeight sets the packaging tare weight
func (s *Shipment) SetPackagingWeight(weight decimal.Decimal) error {
	if weight.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Packaging weight cannot be negative")
	}
	s.PackagingWeight = weight
	s.UpdatedAt = time.Now()
	return nil
}

// SetWeight overrides the cached content weight. The next item mutation
// or sync recomputes it from the items again.
func (s *Shipment) SetWeight(weight decimal.Decimal) error {
	if weight.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}
	s.Weight = weight
	s.UpdatedAt = time.Now()
	return nil
}

// GetWeight returns the cached sum of item weights
func (s *Shipment) GetWeight() decimal.Decimal {
	return s.Weight
}

// GetPackagingWeight returns the packaging tare weight
func (s *Shipment) GetPackagingWeight() decimal.Decimal {
	return s.PackagingWeight
}

// GetTotalWeight returns content weight plus packaging weight
func (s *Shipment) GetTotalWeight() decimal.Decimal {
	return s.Weight.Add(s.PackagingWeight)
}

// GetTotal returns the cached sum of item totals
func (s *Shipment) GetTotal() decimal.Decimal {
	return s.Total
}

// UpdateStatus transitions the shipment to a new status
func (s *Shipment) UpdateStatus(target ShipmentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown shipment status %q", target))
	}
	if !s.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move shipment from %s to %s", s.Status, target))
	}

	previous := s.Status
	s.Status = target
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewShipmentStatusChangedEvent(s, previous))

	return nil
}

// IsReturn returns true for return shipments
func (s *Shipment) IsReturn() bool {
	return s.Type == TypeReturn
}

// IsEditable returns true while items may still be changed
func (s *Shipment) IsEditable() bool {
	return s.Status == StatusDraft || s.Status == StatusProcessing
}

// GetMeta returns the extension attribute stored under key
func (s *Shipment) GetMeta(key string) (string, bool) {
	return s.Meta.Get(key)
}

// SetMeta stores an extension attribute under key
func (s *Shipment) SetMeta(key, value string) {
	if s.Meta == nil {
		s.Meta = shared.NewMeta()
	}
	s.Meta.Set(key, value)
}

// DeleteMeta removes the extension attribute stored under key
func (s *Shipment) DeleteMeta(key string) {
	s.Meta.Delete(key)
}

// recalculateTotals recomputes the cached weight and total from the items
func (s *Shipment) recalculateTotals() {
	weight := decimal.Zero
	total := decimal.Zero
	for idx := range s.Items {
		weight = weight.Add(s.Items[idx].GetItemWeight())
		total = total.Add(s.Items[idx].GetItemTotal())
	}
	s.Weight = weight
	s.Total = total
}
