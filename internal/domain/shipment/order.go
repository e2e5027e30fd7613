package shipment

import (
	"github.com/parcelhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderLine is a snapshot of one shippable order line as supplied by the
// order-management side. Quantity is the ordered quantity; unit weight
// and unit total are per piece.
type OrderLine struct {
	ID         int64
	Name       string
	Quantity   int
	UnitWeight decimal.Decimal
	UnitTotal  decimal.Decimal
}

// Order is a snapshot of the source order a shipment is derived from.
// The sync engine only reads it; the order itself is owned elsewhere.
type Order struct {
	ID              int64
	ShippingAddress valueobject.Address
	Lines           []OrderLine
}

// Line returns the order line with the given ID, or nil
func (o *Order) Line(id int64) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == id {
			return &o.Lines[idx]
		}
	}
	return nil
}
