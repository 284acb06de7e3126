// Package api writes an import to the zone management web application through its JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/db/models"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

const (
	zoneEndpoint   = "/api/zone_api.php"
	recordEndpoint = "/api/dns_api.php"

	maxErrorBody = 512
)

// Client is a sink.Sink talking to zone_api.php and dns_api.php.
type Client struct {
	baseURL    string
	token      string
	userID     int64
	httpClient *http.Client
}

// New creates a client for cfg. Zones and records are created on behalf of userID.
func New(cfg config.API, userID int64) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = config.DefaultAPITimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		userID:     userID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createZoneResponse struct {
	ID     json.Number `json:"id"`
	ZoneID json.Number `json:"zone_id"`
}

type zoneSummary struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type listZonesResponse struct {
	Zones []zoneSummary `json:"zones"`
	Data  []zoneSummary `json:"data"`
}

// CreateZone implements sink.Sink.
func (c *Client) CreateZone(ctx context.Context, d *zone.Descriptor) (int64, error) {
	var result createZoneResponse

	body := models.NewZoneFile(d, c.userID)
	if err := c.do(ctx, http.MethodPost, zoneEndpoint, url.Values{"action": {"create_zone"}}, body, &result); err != nil {
		return 0, errors.Wrapf(err, "create zone %s", d.Name)
	}

	raw := result.ID
	if raw == "" {
		raw = result.ZoneID
	}

	id, err := raw.Int64()
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(ErrNoZoneID, "create zone %s", d.Name)
	}

	log.Info().Str("zone", d.Name).Int64("id", id).Msg("zone created via API")

	return id, nil
}

// CreateRecord implements sink.Sink.
func (c *Client) CreateRecord(ctx context.Context, zoneID int64, rec *zone.Record) error {
	body := models.NewDNSRecord(zoneID, rec, c.userID)
	if err := c.do(ctx, http.MethodPost, recordEndpoint, url.Values{"action": {"create"}}, body, nil); err != nil {
		return errors.Wrapf(err, "create record %s %s", rec.Owner, rec.Type)
	}

	log.Debug().Int64("zone_id", zoneID).Str("owner", rec.Owner).Str("type", string(rec.Type)).
		Msg("record created via API")

	return nil
}

// CreateIncludeEdge implements sink.Sink. A 409 answer means the include is already assigned.
func (c *Client) CreateIncludeEdge(ctx context.Context, parentID, childID int64, position int) error {
	q := url.Values{
		"action":     {"assign_include"},
		"master_id":  {strconv.FormatInt(parentID, 10)},
		"include_id": {strconv.FormatInt(childID, 10)},
		"position":   {strconv.Itoa(position)},
	}

	err := c.do(ctx, http.MethodPost, zoneEndpoint, q, nil, nil)

	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusConflict {
		return nil
	}

	return errors.Wrapf(err, "assign include %d to %d", childID, parentID)
}

// ZoneExists implements sink.Sink. The search filter is a substring match, so the answer is
// checked for an exact name.
func (c *Client) ZoneExists(ctx context.Context, name string) (bool, error) {
	var result listZonesResponse

	q := url.Values{"action": {"list_zones"}, "search": {name}, "name": {name}}
	if err := c.do(ctx, http.MethodGet, zoneEndpoint, q, nil, &result); err != nil {
		return false, errors.Wrapf(err, "look up zone %s", name)
	}

	for _, z := range append(result.Zones, result.Data...) {
		if z.Name == name {
			return true, nil
		}
	}

	return false, nil
}

// StatusError carries a non-success HTTP answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return ErrStatus.Error() + " " + strconv.Itoa(e.Code) + ": " + e.Body
}

// Is matches ErrStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus //nolint:errorlint
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, in, out any) error {
	var reader io.Reader

	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}

		reader = bytes.NewReader(body)
	}

	target := c.baseURL + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}

	return nil
}
