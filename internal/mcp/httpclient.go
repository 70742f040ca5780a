package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotnitxe/yourprime/internal/analysis"
	"github.com/rotnitxe/yourprime/internal/recovery"
)

// HTTPClient implements DataSource by calling the YourPrime REST API. Used
// for remote MCP mode where the binary runs locally (stdio) but data lives
// on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	muscles []string // fetched lazily under mu, cached for the process lifetime
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// MuscleBattery implements DataSource.
func (c *HTTPClient) MuscleBattery(ctx context.Context, muscle string) (recovery.BatteryResult, error) {
	var out recovery.BatteryResult
	err := c.get(ctx, "/api/v1/recovery/"+url.PathEscape(muscle), nil, &out)
	return out, err
}

// SystemicFatigue implements DataSource.
func (c *HTTPClient) SystemicFatigue(ctx context.Context) (recovery.SystemicResult, error) {
	var out recovery.SystemicResult
	err := c.get(ctx, "/api/v1/recovery/systemic", nil, &out)
	return out, err
}

// VolumeBreakdown implements DataSource.
func (c *HTTPClient) VolumeBreakdown(ctx context.Context, muscle string, windowDays int) (analysis.Breakdown, error) {
	query := url.Values{}
	if windowDays > 0 {
		query.Set("window", strconv.Itoa(windowDays))
	}
	var out analysis.Breakdown
	err := c.get(ctx, "/api/v1/volume/"+url.PathEscape(muscle), query, &out)
	return out, err
}

// Muscles implements DataSource. Failures degrade to an empty list — the
// tool surface stays usable even if the first listing call races server
// startup.
func (c *HTTPClient) Muscles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.muscles != nil {
		return c.muscles
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out []string
	if err := c.get(ctx, "/api/v1/muscles", nil, &out); err != nil {
		return nil
	}
	c.muscles = out
	return out
}
