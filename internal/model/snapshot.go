package model

// Property is one named overall quantity of a snapshot.
type Property struct {
	// Name is the property name (e.g. "mass", "temperature").
	Name string `json:"name"`

	// Value is the measured value with optional explicit unit.
	Value Measurement `json:"value"`
}

// ComponentMass is the mass of one mixture component.
// Composition masses are always expressed in kilograms.
type ComponentMass struct {
	// Component is the compound name (e.g. "water").
	Component string `json:"component"`

	// Mass is the component mass in kg.
	Mass float64 `json:"mass"`
}

// Distribution is a named numeric sequence, typically the discretized
// spread of a property such as a particle-size distribution.
type Distribution struct {
	// Name is the distribution name (e.g. "size").
	Name string `json:"name"`

	// Values are the distribution points in insertion order.
	Values []float64 `json:"values"`
}

// Snapshot is one simulation result record: the state of a stream,
// holdup, or feed at a single time point, as produced by the engine.
//
// Entries are kept in ordered slices rather than Go maps because the
// engine's insertion order is part of the output contract.
//
// Design decision: Section presence is tracked separately from section
// content (HasOverall etc.) because an engine may legitimately emit an
// empty section, which must render as a header with no entries, while
// a missing section is a hard error surfaced by the report writer.
type Snapshot struct {
	// Source identifies the stream, holdup, or feed this snapshot
	// belongs to. Optional; empty for anonymous records.
	Source string `json:"source,omitempty"`

	// Time is the simulation time point in seconds.
	Time float64 `json:"time"`

	// Overall holds scalar summary properties in insertion order.
	Overall []Property `json:"overall,omitempty"`

	// Composition holds per-component masses in insertion order.
	Composition []ComponentMass `json:"composition,omitempty"`

	// Distributions holds named numeric sequences in insertion order.
	Distributions []Distribution `json:"distributions,omitempty"`

	// HasOverall reports whether the overall section was present.
	HasOverall bool `json:"has_overall"`

	// HasComposition reports whether the composition section was present.
	HasComposition bool `json:"has_composition"`

	// HasDistributions reports whether the distributions section was present.
	HasDistributions bool `json:"has_distributions"`
}

// NewSnapshot creates an empty snapshot for the given source and time.
// All sections start absent; use the Add methods or set the section
// fields directly to populate it.
func NewSnapshot(source string, time float64) *Snapshot {
	return &Snapshot{Source: source, Time: time}
}

// AddOverall appends an overall property and marks the section present.
func (s *Snapshot) AddOverall(name string, value Measurement) {
	s.Overall = append(s.Overall, Property{Name: name, Value: value})
	s.HasOverall = true
}

// AddComponent appends a composition entry and marks the section present.
func (s *Snapshot) AddComponent(component string, mass float64) {
	s.Composition = append(s.Composition, ComponentMass{Component: component, Mass: mass})
	s.HasComposition = true
}

// AddDistribution appends a distribution and marks the section present.
func (s *Snapshot) AddDistribution(name string, values []float64) {
	s.Distributions = append(s.Distributions, Distribution{Name: name, Values: values})
	s.HasDistributions = true
}

// Complete reports whether all three sections are present.
func (s *Snapshot) Complete() bool {
	return s.HasOverall && s.HasComposition && s.HasDistributions
}

// OverallValue returns the measurement for the named overall property
// and whether it exists.
func (s *Snapshot) OverallValue(name string) (Measurement, bool) {
	for _, p := range s.Overall {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Measurement{}, false
}

// ComponentMassOf returns the mass of the named component and whether
// the component exists in the composition.
func (s *Snapshot) ComponentMassOf(component string) (float64, bool) {
	for _, c := range s.Composition {
		if c.Component == component {
			return c.Mass, true
		}
	}
	return 0, false
}
