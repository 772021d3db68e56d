package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/procsim/streamreport/internal/model"
)

// LoadFile reads and decodes all snapshots from the file at path.
func LoadFile(path string) ([]*model.Snapshot, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snapshots, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snapshots, nil
}

// Decode reads all snapshots from r. The stream may contain several
// YAML documents; each document is either a single snapshot mapping or
// a mapping with a "snapshots" sequence.
//
// Design decision: We decode through yaml.Node instead of unmarshaling
// into maps because Go maps discard the engine's insertion order, which
// is part of the output contract.
func Decode(r io.Reader) ([]*model.Snapshot, error) {
	dec := yaml.NewDecoder(r)

	var snapshots []*model.Snapshot
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		decoded, err := decodeDocument(&doc)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, decoded...)
	}

	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrBadDocument)
	}
	return snapshots, nil
}

// decodeDocument decodes one YAML document into one or more snapshots.
func decodeDocument(doc *yaml.Node) ([]*model.Snapshot, error) {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrBadDocument
	}

	// A "snapshots" sequence wraps several records in one document.
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "snapshots" {
			continue
		}
		list := root.Content[i+1]
		if list.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: snapshots must be a sequence", ErrBadDocument)
		}

		snapshots := make([]*model.Snapshot, 0, len(list.Content))
		for _, item := range list.Content {
			if item.Kind != yaml.MappingNode {
				return nil, ErrBadDocument
			}
			s, err := decodeSnapshot(item)
			if err != nil {
				return nil, err
			}
			snapshots = append(snapshots, s)
		}
		return snapshots, nil
	}

	s, err := decodeSnapshot(root)
	if err != nil {
		return nil, err
	}
	return []*model.Snapshot{s}, nil
}

// decodeSnapshot decodes a single snapshot mapping.
// Unknown keys are ignored; section presence is recorded even for
// empty sections so the writers can tell "empty" from "missing".
func decodeSnapshot(node *yaml.Node) (*model.Snapshot, error) {
	s := model.NewSnapshot("", 0)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch key {
		case "source":
			s.Source = val.Value
		case "time":
			t, err := scalarFloat(val)
			if err != nil {
				return nil, fmt.Errorf("%w: time", ErrNotNumeric)
			}
			s.Time = t
		case "overall":
			if err := decodeOverall(val, s); err != nil {
				return nil, err
			}
		case "composition":
			if err := decodeComposition(val, s); err != nil {
				return nil, err
			}
		case "distributions":
			if err := decodeDistributions(val, s); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// decodeOverall decodes the overall section: a mapping from property
// name to either a numeric scalar or a [value, unit] pair.
func decodeOverall(node *yaml.Node, s *model.Snapshot) error {
	if err := requireMapping(node, "overall"); err != nil {
		return err
	}
	s.HasOverall = true

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		val := node.Content[i+1]

		m, err := decodeMeasurement(name, val)
		if err != nil {
			return err
		}
		s.AddOverall(name, m)
	}

	return nil
}

// decodeMeasurement decodes one overall value into the tagged variant.
func decodeMeasurement(name string, node *yaml.Node) (model.Measurement, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := scalarFloat(node)
		if err != nil {
			return model.Measurement{}, fmt.Errorf("%w: overall property %q", ErrNotNumeric, name)
		}
		return model.Plain(v), nil

	case yaml.SequenceNode:
		if len(node.Content) != 2 {
			return model.Measurement{}, fmt.Errorf("%w: overall property %q", ErrBadShape, name)
		}

		v, err := scalarFloat(node.Content[0])
		if err != nil {
			return model.Measurement{}, fmt.Errorf("%w: overall property %q", ErrNotNumeric, name)
		}

		second := node.Content[1]
		if second.Kind != yaml.ScalarNode {
			return model.Measurement{}, fmt.Errorf("%w: overall property %q", ErrBadShape, name)
		}
		if isNumericScalar(second) {
			return model.Measurement{}, fmt.Errorf("%w: overall property %q", ErrAmbiguousPair, name)
		}
		return model.WithUnit(v, second.Value), nil

	default:
		return model.Measurement{}, fmt.Errorf("%w: overall property %q", ErrBadShape, name)
	}
}

// decodeComposition decodes the composition section: a mapping from
// component name to a numeric mass in kg.
func decodeComposition(node *yaml.Node, s *model.Snapshot) error {
	if err := requireMapping(node, "composition"); err != nil {
		return err
	}
	s.HasComposition = true

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		val := node.Content[i+1]

		mass, err := scalarFloat(val)
		if err != nil {
			return fmt.Errorf("%w: component %q", ErrNotNumeric, name)
		}
		s.AddComponent(name, mass)
	}

	return nil
}

// decodeDistributions decodes the distributions section: a mapping from
// distribution name to a sequence of numeric values.
func decodeDistributions(node *yaml.Node, s *model.Snapshot) error {
	if err := requireMapping(node, "distributions"); err != nil {
		return err
	}
	s.HasDistributions = true

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		val := node.Content[i+1]

		if val.Kind != yaml.SequenceNode {
			return fmt.Errorf("%w: distribution %q must be a sequence", ErrBadShape, name)
		}

		values := make([]float64, 0, len(val.Content))
		for _, item := range val.Content {
			v, err := scalarFloat(item)
			if err != nil {
				return fmt.Errorf("%w: distribution %q", ErrNotNumeric, name)
			}
			values = append(values, v)
		}
		s.AddDistribution(name, values)
	}

	return nil
}

// requireMapping checks that a section node is a mapping.
// An explicit null counts as an empty mapping since YAML renders empty
// sections that way.
func requireMapping(node *yaml.Node, section string) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: section %q must be a mapping", ErrBadShape, section)
	}
	return nil
}

// isNumericScalar reports whether the node is an int or float scalar.
func isNumericScalar(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && (node.Tag == "!!int" || node.Tag == "!!float")
}

// scalarFloat parses a numeric scalar node.
func scalarFloat(node *yaml.Node) (float64, error) {
	if !isNumericScalar(node) {
		return 0, ErrNotNumeric
	}
	return strconv.ParseFloat(node.Value, 64)
}
