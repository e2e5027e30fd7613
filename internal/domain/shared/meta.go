package shared

// Meta is a typed extension-attribute map carried by aggregates.
// It backs the free-form key/value meta tables and is exposed through
// explicit accessors instead of dynamic properties.
type Meta map[string]string

// NewMeta creates an empty meta map
func NewMeta() Meta {
	return make(Meta)
}

// Get returns the value for key and whether it exists
func (m Meta) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// GetOrDefault returns the value for key, or fallback when absent
func (m Meta) GetOrDefault(key, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

// Set stores a value under key
func (m Meta) Set(key, value string) {
	m[key] = value
}

// Delete removes key from the map
func (m Meta) Delete(key string) {
	delete(m, key)
}

// Has returns true if key exists
func (m Meta) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Keys returns all keys in the map (unordered)
func (m Meta) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// Clone returns a shallow copy of the map
func (m Meta) Clone() Meta {
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
