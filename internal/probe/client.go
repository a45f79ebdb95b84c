package probe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Client talks to the service API.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// Health checks that /healthz answers 200.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if resp.StatusCode() != StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode())
	}
	return nil
}

// Similar posts one similarity query.
func (c *Client) Similar(ctx context.Context, target model.TargetFeatureVector, k int) ([]Entry, error) {
	var out []Entry
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetBody(similarRequest{Target: target, K: k}).
		SetResult(&out).
		Post("/similar")
	if err := check(resp, err, "/similar"); err != nil {
		return nil, err
	}
	return out, nil
}

// Heatmap fetches the unfiltered grid at cellSize; zero uses the server default.
func (c *Client) Heatmap(ctx context.Context, cellSize float64) ([]Cell, error) {
	var out heatmapResponse
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if cellSize > 0 {
		req.SetQueryParam("cell_size", strconv.FormatFloat(cellSize, 'f', -1, 64))
	}
	resp, err := req.Get("/heatmap")
	if err := check(resp, err, "/heatmap"); err != nil {
		return nil, err
	}
	return out.Cells, nil
}

// Dataset fetches the dataset info.
func (c *Client) Dataset(ctx context.Context) (int, error) {
	var out datasetInfo
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/dataset")
	if err := check(resp, err, "/dataset"); err != nil {
		return 0, err
	}
	return out.Records, nil
}

func check(resp *resty.Response, err error, path string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequest, path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: status %d: %s", ErrRequest, path, resp.StatusCode(), resp.String())
	}
	return nil
}
