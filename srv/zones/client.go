// Package zones fetches the drought-restriction zones ("zones d'arrêtés
// sécheresse") published on data.gouv.fr and classifies them by severity.
package zones

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"

	"carte.exe.dev/srv/proj"
)

// DefaultURL is the stable URL of the published zone layer.
const DefaultURL = "https://www.data.gouv.fr/fr/datasets/r/bfba7898-aed3-40ec-aa74-abb73b92a363"

const defaultTimeout = 30 * time.Second

// TypeSurface marks zones governing surface water, as opposed to
// groundwater ("SOU") or mixed resources.
const TypeSurface = "SUP"

// Common errors
var (
	ErrUnavailable = errors.New("zone data unavailable")
	ErrBadPayload  = errors.New("zone payload is not a GeoJSON feature collection")
)

// Options configures the zone layer client.
type Options struct {
	// URL overrides DefaultURL, mostly for tests.
	URL string
	// Timeout bounds the whole fetch. Zero means 30 seconds.
	Timeout time.Duration
	// InsecureTLS disables certificate verification. The endpoint has a
	// history of certificate problems; prefer updating the trust store
	// over setting this.
	InsecureTLS bool
}

// Client fetches the zone layer over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a zone layer client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	url := opts.URL
	if url == "" {
		url = DefaultURL
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client := &http.Client{Timeout: timeout}
	if opts.InsecureTLS {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		logger.Warn("TLS certificate verification disabled for zone fetches")
	}

	return &Client{
		url:        url,
		httpClient: client,
		logger:     logger,
	}
}

// Fetch retrieves the zone layer and returns the decoded collection along
// with the EPSG code its geometries are expressed in. Network errors,
// non-200 statuses and undecodable payloads all wrap ErrUnavailable so
// callers can treat them as one "data unavailable" condition.
func (c *Client) Fetch(ctx context.Context) (*geojson.FeatureCollection, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if t := gjson.GetBytes(body, "type").String(); t != "FeatureCollection" {
		return nil, 0, fmt.Errorf("%w: type %q", ErrBadPayload, t)
	}

	// Legacy GeoJSON may carry a crs member naming the reference system.
	// Absent one, coordinates are WGS 84 per RFC 7946.
	epsg := proj.WGS84
	if name := gjson.GetBytes(body, "crs.properties.name").String(); name != "" {
		code, ok := proj.ParseCRSName(name)
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown crs %q", ErrBadPayload, name)
		}
		epsg = code
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	c.logger.Info("fetched zone layer", "features", len(fc.Features), "epsg", epsg)
	return fc, epsg, nil
}

// FilterSUP keeps only the surface-water zones. A collection where
// nothing matches is valid and comes back empty, not as an error.
func FilterSUP(fc *geojson.FeatureCollection) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		if t, ok := f.Properties["type"].(string); ok && t == TypeSurface {
			out.Append(f)
		}
	}
	return out
}
