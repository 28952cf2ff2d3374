package main

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// newAPI builds the release API client, optionally routed through a VCR
// recorder so repeated runs replay cached responses.  The caller must Stop()
// the returned recorder when it's non-nil.
func newAPI(withVCR bool) (*metadata.API, *recorder.Recorder, error) {
	api, err := metadata.NewAPI(BaseURL)
	if err != nil {
		return nil, nil, err
	}

	if !withVCR {
		return api, nil, nil
	}

	cache, err := cacheDir()
	if err != nil {
		return nil, nil, err
	}

	opts := &recorder.Options{
		CassetteName:       filepath.Join(cache, "cassettes", "popgetter"),
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("popgetter: couldn't set up go-vcr recording: %w", err)
	}

	// Add a hook which removes Authorization headers from all requests
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	api.Client = r.GetDefaultClient()
	return api, r, nil
}

// newLoader wires a metadata loader with the on-disk cache.
func newLoader(api *metadata.API, refresh bool) (*metadata.Loader, error) {
	cache, err := cacheDir()
	if err != nil {
		return nil, err
	}

	loader := metadata.NewLoader(api)
	loader.CachePath = filepath.Join(cache, "metadata")
	loader.Refresh = refresh
	return loader, nil
}
