package domain

import "strings"

// ConfigNameField is the reserved key identifying a config record.
const ConfigNameField = "name"

// ConfigRecord is a schema-free config document. The only reserved key is
// "name", which holds the normalized (upper-cased) record identity.
type ConfigRecord map[string]any

// NormalizeConfigName returns the canonical form of a config name.
func NormalizeConfigName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Name returns the record's name, or "" if it is missing or not a string.
func (c ConfigRecord) Name() string {
	name, _ := c[ConfigNameField].(string)
	return name
}

// Validate checks that the record carries a non-empty string name.
func (c ConfigRecord) Validate() error {
	if strings.TrimSpace(c.Name()) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Normalized returns a shallow copy with the name in canonical form.
func (c ConfigRecord) Normalized() ConfigRecord {
	out := c.Clone()
	out[ConfigNameField] = NormalizeConfigName(c.Name())
	return out
}

// Clone returns a shallow copy of the record.
func (c ConfigRecord) Clone() ConfigRecord {
	out := make(ConfigRecord, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge applies a partial update on top of the record. The name field of
// the patch is ignored; identity never changes through an update.
func (c ConfigRecord) Merge(patch ConfigRecord) ConfigRecord {
	out := c.Clone()
	for k, v := range patch {
		if k == ConfigNameField {
			continue
		}
		out[k] = v
	}
	return out
}
