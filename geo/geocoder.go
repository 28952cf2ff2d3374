package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog/log"
)

// DefaultGeocoderURL is a public Nominatim search endpoint.  Point it at
// your own instance if you geocode in bulk.
const DefaultGeocoderURL = "https://nominatim.openstreetmap.org/search"

// Geocoder resolves place names to bounding boxes via a Nominatim-style
// search endpoint.
type Geocoder struct {
	BaseURL *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client
}

func NewGeocoder(baseURL string) (*Geocoder, error) {
	if baseURL == "" {
		baseURL = DefaultGeocoderURL
	}
	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("geo: couldn't parse geocoder URL: %w", err)
	}
	return &Geocoder{
		BaseURL: u,
		Client:  &http.Client{},
	}, nil
}

type geocodeQuery struct {
	Query  string `url:"q"`
	Format string `url:"format"`
	Limit  int    `url:"limit"`
}

// Nominatim returns the box as ["minlat","maxlat","minlon","maxlon"],
// stringly typed.
type geocodeResult struct {
	DisplayName string    `json:"display_name"`
	BoundingBox [4]string `json:"boundingbox"`
}

// BoundingBox looks a place name up and returns its bounding box.
func (g *Geocoder) BoundingBox(ctx context.Context, place string) (BBox, error) {
	if place == "" {
		return BBox{}, fmt.Errorf("geo: please provide a place name to geocode")
	}

	v, err := query.Values(geocodeQuery{Query: place, Format: "jsonv2", Limit: 1})
	if err != nil {
		return BBox{}, fmt.Errorf("geo: couldn't encode query params: %w", err)
	}
	ep := *g.BaseURL
	ep.RawQuery = v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.String(), nil)
	if err != nil {
		return BBox{}, fmt.Errorf("geo: couldn't build request: %w", err)
	}
	req.Header.Set("User-Agent", "popgetter-cli")

	resp, err := g.Client.Do(req)
	if err != nil {
		return BBox{}, fmt.Errorf("geo: geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return BBox{}, fmt.Errorf("geo: geocoder returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return BBox{}, fmt.Errorf("geo: couldn't read geocoder response: %w", err)
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return BBox{}, fmt.Errorf("geo: couldn't parse geocoder response: %w", err)
	}
	if len(results) == 0 {
		return BBox{}, fmt.Errorf("geo: no match for place %q", place)
	}

	box, err := parseNominatimBox(results[0].BoundingBox)
	if err != nil {
		return BBox{}, fmt.Errorf("geo: bad bounding box for %q: %w", place, err)
	}

	log.Debug().
		Str("place", place).
		Str("matched", results[0].DisplayName).
		Str("bbox", box.String()).
		Msg("geocoded place")

	return box, nil
}

func parseNominatimBox(raw [4]string) (BBox, error) {
	vals := [4]float64{}
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return BBox{}, fmt.Errorf("geo: coordinate %q not a number: %w", s, err)
		}
		vals[i] = v
	}

	// order is minlat, maxlat, minlon, maxlon
	b := BBox{MinX: vals[2], MinY: vals[0], MaxX: vals[3], MaxY: vals[1]}
	if err := b.Validate(); err != nil {
		return BBox{}, err
	}
	return b, nil
}
