package shipping

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/parcelhub/backend/internal/domain/shared"
)

// SettingsMap holds provider-specific settings as a name/value mapping,
// stored as a JSON column.
type SettingsMap map[string]string

// Value implements driver.Valuer for database storage
func (m SettingsMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *SettingsMap) Scan(value any) error {
	if value == nil {
		*m = make(SettingsMap)
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into SettingsMap", value)
	}
	if len(data) == 0 || string(data) == "null" {
		*m = make(SettingsMap)
		return nil
	}
	return json.Unmarshal(data, m)
}

// Clone returns a shallow copy of the map
func (m SettingsMap) Clone() SettingsMap {
	out := make(SettingsMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ShippingProvider is a carrier entity carrying global default
// configuration. Shipping methods reference a provider by key; they
// never own it.
type ShippingProvider struct {
	shared.BaseEntity
	Key         string `gorm:"uniqueIndex"`
	Label       string
	Enabled     bool
	Settings    SettingsMap `gorm:"type:jsonb"`
	ActivatedAt *time.Time
	Meta        shared.Meta `gorm:"-"`
}

// TableName maps the entity onto the shipping_provider table
func (ShippingProvider) TableName() string { return "shipping_provider" }

// NewShippingProvider creates a new disabled provider
func NewShippingProvider(key, label string) (*ShippingProvider, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_KEY", "Provider key cannot be empty")
	}
	if label == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_LABEL", "Provider label cannot be empty")
	}
	return &ShippingProvider{
		BaseEntity: shared.NewBaseEntity(),
		Key:        key,
		Label:      label,
		Settings:   make(SettingsMap),
		Meta:       shared.NewMeta(),
	}, nil
}

// Activate enables the provider and records the activation time
func (p *ShippingProvider) Activate() {
	if p.Enabled {
		return
	}
	now := time.Now()
	p.Enabled = true
	p.ActivatedAt = &now
	p.UpdatedAt = now
}

// Deactivate disables the provider
func (p *ShippingProvider) Deactivate() {
	p.Enabled = false
	p.UpdatedAt = time.Now()
}

// GetSetting returns the provider default stored under name
func (p *ShippingProvider) GetSetting(name string) (string, bool) {
	v, ok := p.Settings[name]
	return v, ok
}

// SetSetting stores a provider default under name
func (p *ShippingProvider) SetSetting(name, value string) {
	if p.Settings == nil {
		p.Settings = make(SettingsMap)
	}
	p.Settings[name] = value
	p.UpdatedAt = time.Now()
}

// ProviderRegistry is an explicit registry of shipping providers,
// constructed at startup and passed to the components that need provider
// lookup. There is no process-wide registry.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]*ShippingProvider
}

// NewProviderRegistry creates an empty registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]*ShippingProvider)}
}

// Register adds a provider to the registry; registering the same key
// twice replaces the earlier entry.
func (r *ProviderRegistry) Register(p *ShippingProvider) error {
	if p == nil || p.Key == "" {
		return shared.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Key] = p
	return nil
}

// Get returns the provider registered under key
func (r *ProviderRegistry) Get(key string) (*ShippingProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

// List returns all registered providers ordered by key
func (r *ProviderRegistry) List() []*ShippingProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*ShippingProvider, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.providers[k])
	}
	return out
}

// ListEnabled returns all enabled providers ordered by key
func (r *ProviderRegistry) ListEnabled() []*ShippingProvider {
	all := r.List()
	out := make([]*ShippingProvider, 0, len(all))
	for _, p := range all {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}
