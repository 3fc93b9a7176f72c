package crosswalk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/dspace-crosswalk/config"
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
	"github.com/lehigh-university-libraries/dspace-crosswalk/schema"
)

// Env is what a crosswalk works against.
type Env struct {
	Store    *content.Store
	Fields   *schema.Registry
	Config   *config.Config
	Profiles *mapping.ProfileRegistry
	Fetcher  Fetcher

	once      sync.Once
	validator *Validator
}

// NewEnv builds an Env with an HTTP fetcher using the configured timeout.
func NewEnv(store *content.Store, fields *schema.Registry, cfg *config.Config, profiles *mapping.ProfileRegistry) *Env {
	return &Env{
		Store:    store,
		Fields:   fields,
		Config:   cfg,
		Profiles: profiles,
		Fetcher:  NewHTTPFetcher(cfg.OREFetchTimeout),
	}
}

// NewDefaultEnv builds an Env over store with the default configuration,
// field registry and mapping profiles.
func NewDefaultEnv(store *content.Store) (*Env, error) {
	fields, err := schema.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	profiles, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	return NewEnv(store, fields, config.Default(), profiles), nil
}

// Validator returns the env's shared metadata validator.
func (e *Env) Validator() *Validator {
	e.once.Do(func() {
		e.validator = NewValidator(e.Fields)
	})
	return e.validator
}

// Profile returns the named mapping profile.
func (e *Env) Profile(name string) (*mapping.Profile, error) {
	if e.Profiles == nil {
		return nil, fmt.Errorf("mapping profile %q not found: no profiles loaded", name)
	}
	return e.Profiles.MustGet(name)
}

// Now returns the store's clock.
func (e *Env) Now() time.Time {
	if e.Store != nil && e.Store.Now != nil {
		return e.Store.Now()
	}
	return time.Now()
}

// Fetcher retrieves the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, mimeType string, err error)
}

// HTTPFetcher fetches over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch issues a GET and returns the body and its Content-Type.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", url, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
