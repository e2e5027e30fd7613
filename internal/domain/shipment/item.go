package shipment

import (
	"github.com/parcelhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ShipmentItem represents a quantity of one order line packed into a
// shipment. Items have no lifecycle of their own; they live and die with
// their owning shipment.
type ShipmentItem struct {
	shared.BaseEntity
	ShipmentID  int64
	OrderItemID int64
	Name        string
	Quantity    int
	UnitWeight  decimal.Decimal
	UnitTotal   decimal.Decimal
	Meta        shared.Meta `gorm:"-"`
}

// NewShipmentItem creates a new shipment item for an order line.
// Quantity must be a positive integer; unit weight and unit total must
// not be negative.
func NewShipmentItem(orderItemID int64, name string, quantity int, unitWeight, unitTotal decimal.Decimal) (*ShipmentItem, error) {
	if orderItemID <= 0 {
		return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "Order item reference cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	}
	if unitWeight.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Unit weight cannot be negative")
	}
	if unitTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Unit total cannot be negative")
	}

	return &ShipmentItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderItemID: orderItemID,
		Name:        name,
		Quantity:    quantity,
		UnitWeight:  unitWeight,
		UnitTotal:   unitTotal,
		Meta:        shared.NewMeta(),
	}, nil
}

// GetQuantity returns the shipped quantity
func (i *ShipmentItem) GetQuantity() int {
	return i.Quantity
}

// GetItemWeight returns quantity x unit weight
func (i *ShipmentItem) GetItemWeight() decimal.Decimal {
	return i.UnitWeight.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// GetItemTotal returns quantity x unit total
func (i *ShipmentItem) GetItemTotal() decimal.Decimal {
	return i.UnitTotal.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// setQuantity updates the shipped quantity. Aggregate-internal; callers
// go through Shipment so cached totals stay in sync.
func (i *ShipmentItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	}
	i.Quantity = quantity
	return nil
}

// GetMeta returns the extension attribute stored under key
func (i *ShipmentItem) GetMeta(key string) (string, bool) {
	return i.Meta.Get(key)
}

// SetMeta stores an extension attribute under key
func (i *ShipmentItem) SetMeta(key, value string) {
	if i.Meta == nil {
		i.Meta = shared.NewMeta()
	}
	i.Meta.Set(key, value)
}
