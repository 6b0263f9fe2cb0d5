// Package backend is a read-only client for the legacy clinic backend's REST
// API. It is the alternate entity source for deployments that have no direct
// database access: each List call fetches one collection and adapts the
// loosely-shaped JSON into canonical snapshots.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clinic/clinic/internal/platform/stats"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. apiKey may be empty;
// when set it is sent as a bearer token.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) ListSchedules(ctx context.Context) ([]stats.Schedule, error) {
	raw, err := c.fetchList(ctx, "/api/schedules")
	if err != nil {
		return nil, err
	}
	items := make([]stats.Schedule, 0, len(raw))
	for _, obj := range raw {
		items = append(items, stats.AdaptSchedule(obj))
	}
	return items, nil
}

func (c *Client) ListHealthRecords(ctx context.Context) ([]stats.HealthRecord, error) {
	raw, err := c.fetchList(ctx, "/api/health-records")
	if err != nil {
		return nil, err
	}
	items := make([]stats.HealthRecord, 0, len(raw))
	for _, obj := range raw {
		items = append(items, stats.AdaptHealthRecord(obj))
	}
	return items, nil
}

func (c *Client) ListTestOrders(ctx context.Context) ([]stats.TestOrder, error) {
	raw, err := c.fetchList(ctx, "/api/test-orders")
	if err != nil {
		return nil, err
	}
	items := make([]stats.TestOrder, 0, len(raw))
	for _, obj := range raw {
		items = append(items, stats.AdaptTestOrder(obj))
	}
	return items, nil
}

func (c *Client) ListPayments(ctx context.Context) ([]stats.Payment, error) {
	raw, err := c.fetchList(ctx, "/api/payments")
	if err != nil {
		return nil, err
	}
	items := make([]stats.Payment, 0, len(raw))
	for _, obj := range raw {
		items = append(items, stats.AdaptPayment(obj))
	}
	return items, nil
}

func (c *Client) ListStaff(ctx context.Context) ([]stats.StaffMember, error) {
	raw, err := c.fetchList(ctx, "/api/staff")
	if err != nil {
		return nil, err
	}
	items := make([]stats.StaffMember, 0, len(raw))
	for _, obj := range raw {
		items = append(items, stats.AdaptStaffMember(obj))
	}
	return items, nil
}

// fetchList GETs a collection endpoint. The backend serves either a bare JSON
// array or an envelope with a "data" field; both shapes are accepted.
func (c *Client) fetchList(ctx context.Context, path string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("backend %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", path, err)
	}
	return decodeList(body, path)
}

func decodeList(body []byte, path string) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []map[string]any
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("backend %s: %w", path, err)
		}
		return list, nil
	}
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("backend %s: %w", path, err)
	}
	return envelope.Data, nil
}
