package model

// defaultUnits maps well-known overall property names to their units.
// The table is read-only; unknown properties resolve to an empty unit.
var defaultUnits = map[string]string{
	"mass":        "kg",
	"massflow":    "kg/s",
	"temperature": "K",
	"pressure":    "Pa",
}

// DefaultUnit returns the built-in unit for an overall property name,
// or an empty string if the property has no registered unit.
func DefaultUnit(property string) string {
	return defaultUnits[property]
}

// Measurement is a numeric property value with an optional explicit unit.
//
// Design decision: We use an explicit tag (Explicit) instead of inferring
// "value with unit" from a runtime shape such as a two-element sequence.
// Shape-based dispatch is ambiguous for genuinely two-element numeric
// data; the tag makes the distinction at construction time. The
// default-unit table applies only to plain measurements.
type Measurement struct {
	// Value is the numeric magnitude.
	Value float64 `json:"value"`

	// Unit is the explicit unit string. It is only meaningful when
	// Explicit is true; an explicit empty unit is allowed and wins
	// over the default table.
	Unit string `json:"unit,omitempty"`

	// Explicit marks a unit that was supplied together with the value.
	Explicit bool `json:"explicit,omitempty"`
}

// Plain creates a Measurement without an explicit unit.
// Its unit is resolved from the default-unit table at render time.
func Plain(value float64) Measurement {
	return Measurement{Value: value}
}

// WithUnit creates a Measurement carrying an explicit unit.
// The explicit unit always overrides the default table.
func WithUnit(value float64, unit string) Measurement {
	return Measurement{Value: value, Unit: unit, Explicit: true}
}

// ResolveUnit returns the unit to render for the given property name.
// Resolution order: explicit unit, then the overrides map (may be nil),
// then the built-in default table, then the empty string.
func (m Measurement) ResolveUnit(property string, overrides map[string]string) string {
	if m.Explicit {
		return m.Unit
	}
	if unit, ok := overrides[property]; ok {
		return unit
	}
	return DefaultUnit(property)
}
