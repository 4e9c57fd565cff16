// Package landmark is the client for the face-landmark detection service.
package landmark

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
	"hairworks/internal/media"
)

// Options controls how the landmark client is configured.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client calls the landmark detection service for single frames. When no base
// URL is configured the client reports no face for every frame, which the
// pipeline treats as graceful degradation rather than an error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a landmark detection client.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
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
		httpClient: client,
		logger:     logger,
	}
}

type detectResponse struct {
	Face      bool                   `json:"face"`
	Landmarks map[string]media.Point `json:"landmarks"`
}

// Detect posts one frame image and returns the named landmark points, or
// domain.ErrNoFace when the frame contains no detectable face.
func (c *Client) Detect(ctx context.Context, framePath string) (media.Landmarks, error) {
	if c.baseURL == "" {
		return nil, domain.ErrNoFace
	}

	data, err := os.ReadFile(framePath)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/landmarks", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("landmark request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, domain.ErrNoFace
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("landmark service returned %s", resp.Status)
	}

	var decoded detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode landmark response: %w", err)
	}
	if !decoded.Face || len(decoded.Landmarks) == 0 {
		return nil, domain.ErrNoFace
	}
	return media.Landmarks(decoded.Landmarks), nil
}
