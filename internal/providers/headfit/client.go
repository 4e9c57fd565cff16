// Package headfit is the client for the out-of-process head-model fitting
// service. The model runtime stays behind a narrow image-in/parameters-out
// contract with its own timeout; every failure mode degrades to the average
// head rather than failing the job.
package headfit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hairworks/internal/domain"
	"hairworks/internal/infra"
)

// Options controls how the head-fit client is configured.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client invokes the fitting service for the best available frame.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a head-fit client.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    timeout,
		httpClient: client,
		logger:     logger,
	}
}

// Fit posts the first available frame to the fitting service. When the
// service is unconfigured, unreachable, slow or returns garbage, the average
// head parameters are used instead; fitting never fails a job.
func (c *Client) Fit(ctx context.Context, framePaths []string) (domain.HeadParams, error) {
	if c.baseURL == "" {
		c.logger.Debug().Msg("headfit: no service configured, using average head")
		return domain.DefaultHeadParams(), nil
	}

	var data []byte
	for _, path := range framePaths {
		b, err := os.ReadFile(path)
		if err == nil {
			data = b
			break
		}
	}
	if data == nil {
		return domain.DefaultHeadParams(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params, err := c.fit(ctx, data)
	if err != nil {
		c.logger.Warn().Err(err).Msg("headfit: fitting failed, using average head")
		return domain.DefaultHeadParams(), nil
	}
	return params, nil
}

func (c *Client) fit(ctx context.Context, frame []byte) (domain.HeadParams, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/fit", bytes.NewReader(frame))
	if err != nil {
		return domain.HeadParams{}, err
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.HeadParams{}, fmt.Errorf("fit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return domain.HeadParams{}, fmt.Errorf("fit service returned %s", resp.Status)
	}

	var params domain.HeadParams
	if err := json.NewDecoder(resp.Body).Decode(&params); err != nil {
		return domain.HeadParams{}, fmt.Errorf("decode fit response: %w", err)
	}
	if params.Scale == 0 {
		return domain.HeadParams{}, fmt.Errorf("fit response missing scale")
	}
	if len(params.Centroid) != 3 {
		params.Centroid = []float64{0, 0, 0}
	}
	return params, nil
}
