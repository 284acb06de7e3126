// Package powerdns builds the PowerDNS HTTP API client used by the powerdns sink.
package powerdns

import (
	"context"
	"net/http"

	"github.com/joeig/go-powerdns/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
)

// DefaultVHost is the server id used when none is configured.
const DefaultVHost = "localhost"

// Engine wraps the PowerDNS client.
type Engine struct {
	*powerdns.Client
}

// New creates the client described by cfg. httpClient may be nil.
func New(cfg config.PowerDNS, httpClient *http.Client) (*Engine, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}

	vhost := cfg.VHost
	if vhost == "" {
		vhost = DefaultVHost
	}

	opts := []powerdns.NewOption{powerdns.WithAPIKey(cfg.APIKey)}
	if httpClient != nil {
		opts = append(opts, powerdns.WithHTTPClient(httpClient))
	}

	return &Engine{Client: powerdns.New(cfg.URL, vhost, opts...)}, nil
}

// Test checks the API connection by listing the zones.
func (e *Engine) Test(ctx context.Context) error {
	if e == nil || e.Client == nil {
		return ErrClientNotInitialized
	}

	zones, err := e.Zones.List(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Int("zone_count", len(zones)).Msg("PowerDNS API connection test successful")

	return nil
}
