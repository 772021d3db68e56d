package model

// Summary is a condensed view of a snapshot used for markdown reports
// and historical comparison.
//
// Design decision: We derive a separate summary struct rather than
// computing totals inside the writers because:
// 1. The same numbers feed the markdown writer, the compare command,
//    and the history database column
// 2. It keeps the writers free of arithmetic
// 3. It can be serialized to JSON for structured-but-simple output
type Summary struct {
	// Source is the snapshot's stream/holdup/feed name.
	Source string `json:"source,omitempty"`

	// Time is the simulation time point in seconds.
	Time float64 `json:"time"`

	// PropertyCount is the number of overall properties.
	PropertyCount int `json:"property_count"`

	// TotalMass is the sum of all composition masses in kg.
	TotalMass float64 `json:"total_mass"`

	// ComponentCount is the number of composition entries.
	ComponentCount int `json:"component_count"`

	// LargestComponent is the component with the greatest mass.
	// Empty when the composition is empty.
	LargestComponent string `json:"largest_component,omitempty"`

	// LargestMass is the mass of LargestComponent in kg.
	LargestMass float64 `json:"largest_mass,omitempty"`

	// Distributions holds per-distribution statistics.
	Distributions []DistributionStats `json:"distributions,omitempty"`
}

// DistributionStats summarizes one distribution of a snapshot.
type DistributionStats struct {
	// Name is the distribution name.
	Name string `json:"name"`

	// Points is the number of values in the distribution.
	Points int `json:"points"`

	// Min is the smallest value. Zero when the distribution is empty.
	Min float64 `json:"min"`

	// Max is the largest value. Zero when the distribution is empty.
	Max float64 `json:"max"`

	// Mean is the arithmetic mean. Zero when the distribution is empty.
	Mean float64 `json:"mean"`
}

// NewSummary derives a Summary from a snapshot.
// Absent sections contribute zero counts; the summary never fails.
func NewSummary(s *Snapshot) *Summary {
	summary := &Summary{
		Source:        s.Source,
		Time:          s.Time,
		PropertyCount: len(s.Overall),
	}

	summary.ComponentCount = len(s.Composition)
	for _, c := range s.Composition {
		summary.TotalMass += c.Mass
		if c.Mass > summary.LargestMass || summary.LargestComponent == "" {
			summary.LargestComponent = c.Component
			summary.LargestMass = c.Mass
		}
	}

	for _, d := range s.Distributions {
		summary.Distributions = append(summary.Distributions, newDistributionStats(d))
	}

	return summary
}

// newDistributionStats computes statistics for a single distribution.
func newDistributionStats(d Distribution) DistributionStats {
	stats := DistributionStats{
		Name:   d.Name,
		Points: len(d.Values),
	}
	if len(d.Values) == 0 {
		return stats
	}

	stats.Min = d.Values[0]
	stats.Max = d.Values[0]
	var sum float64
	for _, v := range d.Values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		sum += v
	}
	stats.Mean = sum / float64(len(d.Values))

	return stats
}
