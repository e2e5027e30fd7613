package shipping

import (
	"github.com/parcelhub/backend/internal/domain/shared"
)

// ShippingMethod is a checkout-facing delivery option instance. A method
// may be associated with a provider (weak reference by key) whose global
// defaults it inherits for every field it does not override itself.
type ShippingMethod struct {
	InstanceID  int64
	Title       string
	ProviderKey string
	// Settings holds only the method's own overrides, keyed by field ID.
	Settings SettingsMap
	// recordedDefaults is the provider default set captured on the last
	// settings resolution; cleaning compares against these values.
	recordedDefaults SettingsMap
}

// NewShippingMethod creates a shipping method instance
func NewShippingMethod(instanceID int64, title, providerKey string) (*ShippingMethod, error) {
	if instanceID <= 0 {
		return nil, shared.NewDomainError("INVALID_INSTANCE", "Method instance ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Method title cannot be empty")
	}
	return &ShippingMethod{
		InstanceID:       instanceID,
		Title:            title,
		ProviderKey:      providerKey,
		Settings:         make(SettingsMap),
		recordedDefaults: make(SettingsMap),
	}, nil
}

// ResolveSettings overlays the provider's current defaults under the
// method's own overrides and records the defaults used, so a later
// cleaning pass can tell inherited values from real overrides.
func (m *ShippingMethod) ResolveSettings(p *ShippingProvider) SettingsMap {
	defaults := make(SettingsMap)
	for _, field := range ProviderAdminSettings(p) {
		defaults[field.ID] = field.Default
	}
	m.recordedDefaults = defaults

	resolved := defaults.Clone()
	for key, value := range m.Settings {
		resolved[key] = value
	}
	return resolved
}

// RecordedDefaults returns the provider defaults captured on the last
// resolution (a copy; callers cannot mutate the record).
func (m *ShippingMethod) RecordedDefaults() SettingsMap {
	return m.recordedDefaults.Clone()
}

// SetSetting stores a method-level override, keyed by field ID
func (m *ShippingMethod) SetSetting(id, value string) {
	if m.Settings == nil {
		m.Settings = make(SettingsMap)
	}
	m.Settings[id] = value
}

// GetSetting returns the method's effective value for a field: its own
// override when present, the recorded provider default otherwise.
func (m *ShippingMethod) GetSetting(id string) (string, bool) {
	if v, ok := m.Settings[id]; ok {
		return v, true
	}
	v, ok := m.recordedDefaults[id]
	return v, ok
}

// ApplyCleanedSettings replaces the method's stored overrides with a
// cleaned value set (the output of FilterMethodSettings).
func (m *ShippingMethod) ApplyCleanedSettings(values SettingsMap) {
	m.Settings = values.Clone()
}
