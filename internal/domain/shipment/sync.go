package shipment

import (
	"context"
	"time"

	"github.com/parcelhub/backend/internal/domain/shared"
)

// SyncEngine derives a shipment's address and item set from its source
// order. It re-reads the order's sibling shipments at sync time so the
// summed shipped quantity per order line never exceeds the ordered
// quantity (or, for returns, the shipped quantity).
type SyncEngine struct {
	shipments ShipmentRepository
}

// NewSyncEngine creates a sync engine. The repository supplies the
// sibling shipments of an order; a nil repository means quotas are
// computed against the order alone.
func NewSyncEngine(shipments ShipmentRepository) *SyncEngine {
	return &SyncEngine{shipments: shipments}
}

// SyncFromOrder copies the order's shipping address into the shipment
// and reconciles the item set against the order lines:
//   - lines no longer present or without remaining quantity lose their item
//   - items above their line quota are reduced to it
//   - lines with remaining quantity and no item get one, at the full
//     remaining quantity
//
// An order with nothing left to ship is a no-op, not an error. Syncing
// twice against an unchanged order produces no net change.
func (e *SyncEngine) SyncFromOrder(ctx context.Context, s *Shipment, order *Order) error {
	if s == nil || order == nil {
		return shared.ErrInvalidInput
	}
	if s.OrderID != order.ID {
		return shared.NewDomainError("ORDER_MISMATCH", "Shipment does not belong to this order")
	}
	if !s.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Cannot sync a shipment after it has shipped")
	}

	quotas, err := e.lineQuotas(ctx, s, order)
	if err != nil {
		return err
	}

	if len(s.Items) == 0 && !hasQuota(quotas) {
		return nil
	}

	s.SetAddress(order.ShippingAddress)

	// Drop or adjust existing items first, then fill gaps.
	kept := s.Items[:0]
	for idx := range s.Items {
		item := s.Items[idx]
		line := order.Line(item.OrderItemID)
		quota := quotas[item.OrderItemID]
		if line == nil || quota <= 0 {
			continue
		}
		item.Name = line.Name
		item.UnitWeight = line.UnitWeight
		item.UnitTotal = line.UnitTotal
		if item.Quantity > quota {
			item.Quantity = quota
		}
		kept = append(kept, item)
	}
	s.Items = kept

	for idx := range order.Lines {
		line := order.Lines[idx]
		quota := quotas[line.ID]
		if quota <= 0 || s.GetItemByOrderItem(line.ID) != nil {
			continue
		}
		item, err := NewShipmentItem(line.ID, line.Name, quota, line.UnitWeight, line.UnitTotal)
		if err != nil {
			return err
		}
		item.ShipmentID = s.ID
		s.Items = append(s.Items, *item)
	}

	s.recalculateTotals()
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewShipmentSyncedEvent(s))

	return nil
}

// lineQuotas computes, per order line, the maximum quantity this
// shipment may carry. For simple shipments that is the ordered quantity
// minus what sibling simple shipments already ship; for returns it is
// the shipped quantity minus what sibling returns already take back.
func (e *SyncEngine) lineQuotas(ctx context.Context, s *Shipment, order *Order) (map[int64]int, error) {
	shipped := make(map[int64]int)
	returned := make(map[int64]int)

	if e.shipments != nil {
		siblings, err := e.shipments.FindByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		for idx := range siblings {
			sib := &siblings[idx]
			if s.ID != 0 && sib.ID == s.ID {
				continue
			}
			for _, item := range sib.Items {
				if sib.Type == TypeReturn {
					returned[item.OrderItemID] += item.Quantity
				} else {
					shipped[item.OrderItemID] += item.Quantity
				}
			}
		}
	}

	quotas := make(map[int64]int, len(order.Lines))
	for _, line := range order.Lines {
		var quota int
		if s.Type == TypeReturn {
			quota = shipped[line.ID] - returned[line.ID]
		} else {
			quota = line.Quantity - shipped[line.ID]
		}
		if quota < 0 {
			quota = 0
		}
		quotas[line.ID] = quota
	}
	return quotas, nil
}

func hasQuota(quotas map[int64]int) bool {
	for _, q := range quotas {
		if q > 0 {
			return true
		}
	}
	return false
}
