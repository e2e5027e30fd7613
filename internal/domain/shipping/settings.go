package shipping

import (
	"sort"
	"strings"

	"github.com/parcelhub/backend/internal/domain/shared"
)

// SettingField describes one configurable field in a settings schema
type SettingField struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Type        string            `json:"type"`
	Default     string            `json:"default"`
	Description string            `json:"description,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
}

// FilterSettingsChain is the extension point external code registers
// transforms on before cleaned method settings are returned.
type FilterSettingsChain = shared.HookChain[SettingsMap]

// NewFilterSettingsChain creates an empty settings filter chain
func NewFilterSettingsChain() *FilterSettingsChain {
	return shared.NewHookChain[SettingsMap]()
}

// ProviderAdminSettings returns the global, provider-level settings
// schema. Every shipping method using the provider inherits the same
// field set; each field's default is the provider's current value.
func ProviderAdminSettings(p *ShippingProvider) []SettingField {
	if p == nil {
		return nil
	}

	fields := make([]SettingField, 0, len(p.Settings)+1)
	fields = append(fields, SettingField{
		ID:      settingID(p, "enabled"),
		Label:   p.Label + ": Enabled",
		Type:    "checkbox",
		Default: boolSetting(p.Enabled),
	})

	names := make([]string, 0, len(p.Settings))
	for name := range p.Settings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fields = append(fields, SettingField{
			ID:      settingID(p, name),
			Label:   p.Label + ": " + settingLabel(name),
			Type:    "text",
			Default: p.Settings[name],
		})
	}
	return fields
}

// AddMethodSettings merges the provider's field set into a shipping
// method's settings definition. The merge is additive: provider fields
// are appended after the method-native fields, and a provider field
// never overwrites a method-native definition with the same ID.
func AddMethodSettings(existing []SettingField, p *ShippingProvider) []SettingField {
	providerFields := ProviderAdminSettings(p)
	if len(providerFields) == 0 {
		return existing
	}

	seen := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		seen[f.ID] = struct{}{}
	}

	merged := make([]SettingField, 0, len(existing)+len(providerFields))
	merged = append(merged, existing...)
	for _, f := range providerFields {
		if _, ok := seen[f.ID]; ok {
			continue
		}
		merged = append(merged, f)
	}
	return merged
}

// CleanSettings strips every key whose value exactly equals its recorded
// default, so unchanged inherited values are not duplicated in storage
// and later default changes propagate. Pure; nothing here touches
// persistence.
func CleanSettings(values, defaults SettingsMap) SettingsMap {
	cleaned := make(SettingsMap, len(values))
	for key, value := range values {
		if def, ok := defaults[key]; ok && def == value {
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}

// FilterMethodSettings cleans a method's resolved values against the
// method's recorded effective provider defaults and passes the result
// through the registered filter chain before it is persisted.
func FilterMethodSettings(values SettingsMap, m *ShippingMethod, chain *FilterSettingsChain) SettingsMap {
	defaults := SettingsMap{}
	if m != nil {
		defaults = m.RecordedDefaults()
	}
	cleaned := CleanSettings(values, defaults)
	if chain != nil {
		cleaned = chain.Apply(cleaned)
	}
	return cleaned
}

func settingID(p *ShippingProvider, name string) string {
	return p.Key + "_" + name
}

func settingLabel(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func boolSetting(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
