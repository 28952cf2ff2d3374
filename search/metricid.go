package search

import (
	"fmt"
	"regexp"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
)

// Kind says which catalogue column a MetricID refers to.
type Kind int

const (
	// KindHxl is a Humanitarian Exchange Language tag, e.g. "#population+adults".
	KindHxl Kind = iota
	// KindID is the internal metric UUID.
	KindID
	// KindName is the human readable metric name.
	KindName
)

// MetricID is one way of referring to a metric.  The value may be a regular
// expression, in which case Expand resolves it to the explicit IDs it
// matches.
type MetricID struct {
	Kind  Kind
	Value string
}

func Hxl(v string) MetricID  { return MetricID{Kind: KindHxl, Value: v} }
func ID(v string) MetricID   { return MetricID{Kind: KindID, Value: v} }
func Name(v string) MetricID { return MetricID{Kind: KindName, Value: v} }

// ColumnName returns the combined-catalogue column this ID kind selects on.
func (m MetricID) ColumnName() string {
	switch m.Kind {
	case KindHxl:
		return metadata.ColMetricHxlTag
	case KindID:
		return metadata.ColMetricID
	default:
		return metadata.ColHumanReadableName
	}
}

// fieldValue picks the matching field out of a combined row.
func (m MetricID) fieldValue(row metadata.CombinedRow) string {
	switch m.Kind {
	case KindHxl:
		return row.MetricHxlTag
	case KindID:
		return row.MetricID
	default:
		return row.HumanReadableName
	}
}

// Expand resolves a possibly-fuzzy MetricID into the list of explicit IDs it
// matches in the catalogue.  The value is treated as an unanchored regular
// expression, so a fully spelled-out ID expands to itself.
func Expand(catalog *metadata.Catalog, id MetricID) ([]MetricID, error) {
	re, err := regexp.Compile(id.Value)
	if err != nil {
		return nil, fmt.Errorf("search: bad metric id pattern %q: %w", id.Value, err)
	}

	seen := map[string]bool{}
	expanded := []MetricID{}
	for _, row := range catalog.Combined() {
		value := id.fieldValue(row)
		if !re.MatchString(value) {
			continue
		}
		if seen[value] {
			continue
		}
		seen[value] = true
		expanded = append(expanded, MetricID{Kind: id.Kind, Value: value})
	}

	return expanded, nil
}

// ExpandAll expands every given ID and concatenates the results.
func ExpandAll(catalog *metadata.Catalog, ids []MetricID) ([]MetricID, error) {
	all := []MetricID{}
	for _, id := range ids {
		expanded, err := Expand(catalog, id)
		if err != nil {
			return nil, err
		}
		all = append(all, expanded...)
	}
	return all, nil
}
