// Package dataspec implements data request specs: the JSON recipes that say
// which metrics to fetch, for which region and geometry level, and whether
// to include the boundary geometries in the output.
package dataspec

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/geo"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/search"
)

// DataRequestSpec is the top-level recipe document.
type DataRequestSpec struct {
	// Region restricts the output spatially.  Empty means everywhere the
	// selected metrics cover.
	Region []RegionSpec `json:"region,omitempty"`

	Metrics []MetricSpec `json:"metrics"`

	// Years restricts to releases whose reference period starts in one of
	// the given years.
	Years []string `json:"years,omitempty"`

	Geometry GeometrySpec `json:"geometry"`
}

// RegionSpec is either an explicit bounding box or a named place to
// geocode.  Exactly one of the two must be set.
type RegionSpec struct {
	BBox  *geo.BBox `json:"bbox,omitempty"`
	Place string    `json:"place,omitempty"`
}

// The published recipes write bboxes as a bare 4-element array.
func (r *RegionSpec) UnmarshalJSON(data []byte) error {
	var raw struct {
		BBox  []float64 `json:"bbox"`
		Place string    `json:"place"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dataspec: bad region: %w", err)
	}

	r.Place = raw.Place
	if raw.BBox != nil {
		if len(raw.BBox) != 4 {
			return fmt.Errorf("dataspec: bbox needs 4 values, got %d", len(raw.BBox))
		}
		r.BBox = &geo.BBox{
			MinX: raw.BBox[0],
			MinY: raw.BBox[1],
			MaxX: raw.BBox[2],
			MaxY: raw.BBox[3],
		}
	}
	return nil
}

func (r RegionSpec) MarshalJSON() ([]byte, error) {
	raw := struct {
		BBox  []float64 `json:"bbox,omitempty"`
		Place string    `json:"place,omitempty"`
	}{Place: r.Place}
	if r.BBox != nil {
		raw.BBox = []float64{r.BBox.MinX, r.BBox.MinY, r.BBox.MaxX, r.BBox.MaxY}
	}
	return json.Marshal(raw)
}

// MetricSpec selects metrics by exactly one of the three ID forms.  Values
// may be regular expressions; they get expanded against the catalogue.
type MetricSpec struct {
	ID   string `json:"id,omitempty"`
	Hxl  string `json:"hxl,omitempty"`
	Name string `json:"name,omitempty"`
}

func (m MetricSpec) metricID() (search.MetricID, error) {
	set := 0
	var id search.MetricID
	if m.ID != "" {
		set++
		id = search.ID(m.ID)
	}
	if m.Hxl != "" {
		set++
		id = search.Hxl(m.Hxl)
	}
	if m.Name != "" {
		set++
		id = search.Name(m.Name)
	}
	if set != 1 {
		return search.MetricID{}, fmt.Errorf("dataspec: metric must set exactly one of id, hxl, name: %+v", m)
	}
	return id, nil
}

// GeometrySpec picks the geometry level and whether boundaries go into the
// output.
type GeometrySpec struct {
	Level        string `json:"geometry_level"`
	IncludeGeoms bool   `json:"include_geoms"`
}

// Read loads and validates a recipe file.
func Read(path string) (*DataRequestSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataspec: couldn't read recipe %s: %w", path, err)
	}

	var spec DataRequestSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("dataspec: couldn't parse recipe %s: %w", path, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *DataRequestSpec) Validate() error {
	if len(s.Metrics) == 0 {
		return fmt.Errorf("dataspec: recipe selects no metrics")
	}
	for _, m := range s.Metrics {
		if _, err := m.metricID(); err != nil {
			return err
		}
	}
	for _, r := range s.Region {
		if (r.BBox == nil) == (r.Place == "") {
			return fmt.Errorf("dataspec: region must set exactly one of bbox, place")
		}
		if r.BBox != nil {
			if err := r.BBox.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// MetricIDs converts the metric selectors to search IDs.  Call Validate
// first.
func (s *DataRequestSpec) MetricIDs() []search.MetricID {
	ids := make([]search.MetricID, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		id, err := m.metricID()
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
