package search

import (
	"strings"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/rs/zerolog/log"
)

// SearchContext is a set of text columns a free-text term searches over.
type SearchContext int

const (
	ContextHxl SearchContext = iota
	ContextHumanReadableName
	ContextDescription
)

// AllContexts is the default: search every text column.
func AllContexts() []SearchContext {
	return []SearchContext{ContextHxl, ContextHumanReadableName, ContextDescription}
}

// SearchText is one free-text term plus the columns it applies to.  A term
// matches a row if any of its contexts contains the text,
// case-insensitively.
type SearchText struct {
	Text    string
	Context []SearchContext
}

func (t SearchText) matches(row metadata.CombinedRow) bool {
	needle := strings.ToLower(t.Text)
	contexts := t.Context
	if len(contexts) == 0 {
		contexts = AllContexts()
	}
	for _, c := range contexts {
		var haystack string
		switch c {
		case ContextHxl:
			haystack = row.MetricHxlTag
		case ContextHumanReadableName:
			haystack = row.HumanReadableName
		case ContextDescription:
			haystack = row.MetricDescription
		}
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

// SearchRequest collects free-text terms and structured filters.  Values
// within one filter are ORed; the terms and filters themselves are ANDed.
type SearchRequest struct {
	Text []SearchText

	// Year matches the starting year of the release reference period.
	Year []string

	GeometryLevel     []string
	SourceDataRelease []string
	DataPublisher     []string
	Country           []string

	// CensusTable matches the source metric ID, i.e. the table the metric
	// was derived from.
	CensusTable []string
}

func NewRequest() SearchRequest {
	return SearchRequest{}
}

func (r SearchRequest) WithText(text string) SearchRequest {
	r.Text = append(r.Text, SearchText{Text: text, Context: AllContexts()})
	return r
}

func (r SearchRequest) WithYear(year string) SearchRequest {
	r.Year = append(r.Year, year)
	return r
}

func (r SearchRequest) WithGeometryLevel(level string) SearchRequest {
	r.GeometryLevel = append(r.GeometryLevel, level)
	return r
}

func (r SearchRequest) WithSourceDataRelease(release string) SearchRequest {
	r.SourceDataRelease = append(r.SourceDataRelease, release)
	return r
}

func (r SearchRequest) WithDataPublisher(publisher string) SearchRequest {
	r.DataPublisher = append(r.DataPublisher, publisher)
	return r
}

func (r SearchRequest) WithCountry(country string) SearchRequest {
	r.Country = append(r.Country, country)
	return r
}

func (r SearchRequest) WithCensusTable(table string) SearchRequest {
	r.CensusTable = append(r.CensusTable, table)
	return r
}

// anyEqual is the OR-within-a-filter rule: empty filter passes, otherwise at
// least one value must equal the row's.
func anyEqual(values []string, rowValue string) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if v == rowValue {
			return true
		}
	}
	return false
}

func (r SearchRequest) matches(row metadata.CombinedRow) bool {
	for _, t := range r.Text {
		if !t.matches(row) {
			return false
		}
	}

	if !anyEqual(r.Year, releaseYear(row)) {
		return false
	}
	if !anyEqual(r.GeometryLevel, row.GeometryLevel) {
		return false
	}
	if !anyEqual(r.SourceDataRelease, row.ReleaseName) {
		return false
	}
	if !anyEqual(r.DataPublisher, row.DataPublisherName) {
		return false
	}
	if !anyEqual(r.Country, row.Country) {
		return false
	}
	if !anyEqual(r.CensusTable, row.SourceMetricID) {
		return false
	}
	return true
}

// releaseYear extracts the year a row's reference period starts.  The
// published dates are ISO 8601, so the year is the leading field.
func releaseYear(row metadata.CombinedRow) string {
	date := row.ReleaseReferencePeriodStart
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// Results runs the search over the combined catalogue.
func (r SearchRequest) Results(catalog *metadata.Catalog) Results {
	log.Debug().
		Int("terms", len(r.Text)).
		Strs("year", r.Year).
		Strs("geometry_level", r.GeometryLevel).
		Strs("country", r.Country).
		Msg("searching catalogue")

	results := Results{}
	for _, row := range catalog.Combined() {
		if r.matches(row) {
			results = append(results, row)
		}
	}
	return results
}
