package shipping

import (
	"context"

	"github.com/parcelhub/backend/internal/domain/shared"
)

// ProviderRepository defines the persistence operations for shipping
// providers
type ProviderRepository interface {
	FindByID(ctx context.Context, id int64) (*ShippingProvider, error)
	FindByKey(ctx context.Context, key string) (*ShippingProvider, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ShippingProvider, error)
	Save(ctx context.Context, p *ShippingProvider) error
	Delete(ctx context.Context, id int64) error
}
