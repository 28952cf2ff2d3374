package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is where the popgetter releases are published.
const DefaultBaseURL = "https://popgetter.blob.core.windows.net/popgetter/releases/v0.2"

// API knows how to fetch published popgetter files relative to a base URL.
type API struct {
	BaseURL *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client
}

func NewAPI(baseURL string) (*API, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("metadata: couldn't parse base URL: %w", err)
	}

	a := &API{
		BaseURL: u,
	}
	a.Client = &http.Client{}

	return a, nil
}

// resolveFile turns a path relative to the release root, e.g.
// "be/metric_metadata.parquet", into a full URL.
func (a *API) resolveFile(relpath string) (*url.URL, error) {
	if relpath == "" {
		return nil, fmt.Errorf("metadata: empty relative path")
	}

	joined, err := url.JoinPath(a.BaseURL.String(), relpath)
	if err != nil {
		return nil, fmt.Errorf("metadata: couldn't join %s to base URL: %w", relpath, err)
	}

	u, err := url.Parse(joined)
	if err != nil {
		return nil, fmt.Errorf("metadata: resolved URL is bunk: %w", err)
	}

	return u, nil
}

// FetchFile downloads one published file and returns its raw bytes.
func (a *API) FetchFile(ctx context.Context, relpath string) ([]byte, error) {
	u, err := a.resolveFile(relpath)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("url", u.String()).Msg("fetching file")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("metadata: couldn't build request: %w", err)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata: request for %s failed: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata: unexpected status %s for %s", resp.Status, u)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("metadata: couldn't read response for %s: %w", u, err)
	}

	return body, nil
}

// FetchCountries reads countries.txt at the release root: one country
// directory name per line.
func (a *API) FetchCountries(ctx context.Context) ([]string, error) {
	body, err := a.FetchFile(ctx, "countries.txt")
	if err != nil {
		return nil, fmt.Errorf("metadata: couldn't fetch country list: %w", err)
	}

	countries := []string{}
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		countries = append(countries, line)
	}

	if len(countries) == 0 {
		return nil, fmt.Errorf("metadata: countries.txt was empty")
	}

	log.Debug().Strs("countries", countries).Msg("detected country names")
	return countries, nil
}
