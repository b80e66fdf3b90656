// Package arcgis queries an ArcGIS Feature Service for shelter records.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tilfluktsrom/sweden-shelter-etl/internal/domain"
)

// outFields is the fixed attribute list requested from the service.
const outFields = "Gatuadress,AntalPlatser,Skyddsrumsnr,Kommunnamn,XKoordinat,YKoordinat"

// Client fetches pages of raw shelter features. It implements
// pipeline.PageExtractor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feature-service client with a fixed per-request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ExtractPage fetches one page of features starting at offset. Coordinates
// are requested reprojected to WGS-84 (outSR=4326) so geometry arrives as
// longitude/latitude. A logical error embedded in the response body is
// returned as a *domain.ServiceError.
func (c *Client) ExtractPage(ctx context.Context, offset, count int) ([]domain.RawShelter, error) {
	params := url.Values{
		"where":             {"1=1"},
		"outFields":         {outFields},
		"returnGeometry":    {"true"},
		"outSR":             {"4326"},
		"f":                 {"json"},
		"resultOffset":      {strconv.Itoa(offset)},
		"resultRecordCount": {strconv.Itoa(count)},
	}

	c.logger.Debug("querying feature service", "offset", offset, "count", count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query feature service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feature service returned status %d: %s", resp.StatusCode, body)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if qr.Error != nil {
		return nil, qr.Error
	}

	return qr.Features, nil
}

// queryResponse is the envelope around a feature-service query result. The
// error field is only present when the service rejects the query despite
// answering 200.
type queryResponse struct {
	Features []domain.RawShelter  `json:"features"`
	Error    *domain.ServiceError `json:"error"`
}
