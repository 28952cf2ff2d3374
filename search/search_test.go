package search

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog resembles the Belgian population metrics the published
// catalogue starts with.
func testCatalog() *metadata.Catalog {
	metrics := []struct {
		id, hxl, name string
	}{
		{"m1", "#population+children+age5_17", "Children aged 5 to 17"},
		{"m2", "#population+infants+age0_4", "Infants aged 0 to 4"},
		{"m3", "#population+children+age0_17", "Children aged 0 to 17"},
		{"m4", "#population+adults+f", "Female adults"},
		{"m5", "#population+adults+m", "Male adults"},
		{"m6", "#population+adults", "Adults"},
		{"m7", "#population+ind", "Total population"},
		{"m8", "#households+ind", "Total households"},
	}

	catalog := &metadata.Catalog{
		Geometries: []metadata.Geometry{
			{ID: "g1", Level: "municipality", FilenameStem: "geoms/municipality"},
		},
		SourceDataReleases: []metadata.SourceDataRelease{
			{
				ID:                   "r1",
				Name:                 "Census2021",
				ReferencePeriodStart: "2021-01-01",
				DataPublisherID:      "p1",
				GeometryMetadataID:   "g1",
			},
		},
		DataPublishers: []metadata.DataPublisher{
			{ID: "p1", Name: "Statbel"},
		},
	}
	for _, m := range metrics {
		catalog.Metrics = append(catalog.Metrics, metadata.Metric{
			ID:                  m.id,
			HxlTag:              m.hxl,
			HumanReadableName:   m.name,
			Description:         m.name + " counted at census day",
			SourceDataReleaseID: "r1",
			Country:             "be",
		})
	}
	return catalog
}

func TestExpandWildcardHxl(t *testing.T) {
	expanded, err := Expand(testCatalog(), Hxl("population-*"))
	require.NoError(t, err)

	require.Len(t, expanded, 7, "should return the correct number of metrics")

	values := []string{}
	for _, id := range expanded {
		values = append(values, id.Value)
		assert.Equal(t, KindHxl, id.Kind)
	}
	assert.Equal(t, []string{
		"#population+children+age5_17",
		"#population+infants+age0_4",
		"#population+children+age0_17",
		"#population+adults+f",
		"#population+adults+m",
		"#population+adults",
		"#population+ind",
	}, values)
}

func TestExpandWildcardName(t *testing.T) {
	expanded, err := Expand(testCatalog(), Name("Children*"))
	require.NoError(t, err)

	values := []string{}
	for _, id := range expanded {
		values = append(values, id.Value)
	}
	assert.Equal(t, []string{"Children aged 5 to 17", "Children aged 0 to 17"}, values)
}

func TestExpandFullyDefinedIDExpandsToItself(t *testing.T) {
	expanded, err := Expand(testCatalog(), Hxl(`#population\+infants\+age0_4`))
	require.NoError(t, err)

	require.Len(t, expanded, 1)
	assert.Equal(t, "#population+infants+age0_4", expanded[0].Value)
}

func TestExpandBadPattern(t *testing.T) {
	_, err := Expand(testCatalog(), Hxl("(unclosed"))
	assert.Error(t, err)
}

func TestFreeTextSearchIsCaseInsensitive(t *testing.T) {
	results := NewRequest().WithText("CHILDREN").Results(testCatalog())
	assert.Len(t, results, 2)
}

func TestTextContextRestrictsColumns(t *testing.T) {
	request := SearchRequest{
		Text: []SearchText{{Text: "households", Context: []SearchContext{ContextHxl}}},
	}
	assert.Len(t, request.Results(testCatalog()), 1)

	request = SearchRequest{
		Text: []SearchText{{Text: "households", Context: []SearchContext{ContextHumanReadableName}}},
	}
	assert.Len(t, request.Results(testCatalog()), 1)
}

func TestFiltersCombineWithAnd(t *testing.T) {
	catalog := testCatalog()

	results := NewRequest().WithText("adults").WithYear("2021").Results(catalog)
	assert.Len(t, results, 3)

	results = NewRequest().WithText("adults").WithYear("1999").Results(catalog)
	assert.Empty(t, results)

	results = NewRequest().WithGeometryLevel("municipality").WithCountry("be").Results(catalog)
	assert.Len(t, results, 8)

	results = NewRequest().WithGeometryLevel("region").Results(catalog)
	assert.Empty(t, results)

	results = NewRequest().WithDataPublisher("Statbel").WithSourceDataRelease("Census2021").Results(catalog)
	assert.Len(t, results, 8)
}

func TestResultsHeadAndWrite(t *testing.T) {
	results := NewRequest().WithText("population").Results(testCatalog())
	require.NotEmpty(t, results)

	head := results.Head(2)
	assert.Len(t, head, 2)
	assert.Equal(t, results, results.Head(-1))

	var buf bytes.Buffer
	require.NoError(t, head.Write(&buf, false))
	out := buf.String()
	assert.Contains(t, out, "Metric ID")
	assert.Contains(t, out, "m1")
	assert.NotContains(t, out, "Publisher")

	buf.Reset()
	require.NoError(t, head.Write(&buf, true))
	assert.Contains(t, buf.String(), "Statbel")
	assert.Equal(t, 2, strings.Count(buf.String(), "HXL tag"))
}
