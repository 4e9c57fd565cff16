// Package render is the client for the style rendering service. It resolves
// each style to four camera views: a reference photo when one is available,
// the remote renderer when configured, and a deterministic synthetic
// placeholder otherwise so the rest of the pipeline stays exercised in local
// and CI environments.
package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hairworks/internal/infra"
	"hairworks/internal/media"
)

// Options controls how the render client is configured.
type Options struct {
	BaseURL    string
	References *ReferenceCatalog
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client implements media.Renderer and media.Refiner.
type Client struct {
	baseURL    string
	references *ReferenceCatalog
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a render client.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
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
		references: opts.References,
		httpClient: client,
		logger:     logger,
	}
}

// Render resolves the four views for one style.
func (c *Client) Render(ctx context.Context, req media.RenderRequest) (*media.ViewSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if entry, ok := c.references.Lookup(req.StyleSlug); ok {
		views, err := c.renderReference(entry)
		if err == nil {
			return views, nil
		}
		c.logger.Warn().Err(err).Str("slug", req.StyleSlug).Msg("render: reference photo unusable")
	}

	if c.baseURL != "" {
		views, err := c.remoteRender(ctx, req)
		if err == nil {
			return views, nil
		}
		c.logger.Warn().Err(err).Str("slug", req.StyleSlug).Msg("render: remote renderer failed; falling back to synthetic views")
	}

	return c.syntheticViews(req), nil
}

// Refine post-processes the four views in place via the remote service. The
// synthetic and reference paths need no refinement, so an unconfigured
// refiner is a no-op.
func (c *Client) Refine(ctx context.Context, views *media.ViewSet) error {
	if c.baseURL == "" {
		return nil
	}
	for _, name := range media.ViewNames {
		refined, err := c.remoteRefine(ctx, views.Get(name))
		if err != nil {
			return fmt.Errorf("refine %s view: %w", name, err)
		}
		views.Set(name, refined)
	}
	return nil
}

// renderReference serves the downloaded reference photo for all four views.
func (c *Client) renderReference(entry ReferenceEntry) (*media.ViewSet, error) {
	data, err := os.ReadFile(entry.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("read reference photo: %w", err)
	}
	views := &media.ViewSet{}
	for _, name := range media.ViewNames {
		views.Set(name, data)
	}
	return views, nil
}

type remoteRenderRequest struct {
	StyleSlug    string    `json:"style_slug"`
	HeadScale    float64   `json:"head_scale"`
	HeadCentroid []float64 `json:"head_centroid"`
}

type remoteRenderResponse struct {
	Views map[string]string `json:"views"` // view name -> base64 PNG
}

func (c *Client) remoteRender(ctx context.Context, req media.RenderRequest) (*media.ViewSet, error) {
	payload, err := json.Marshal(remoteRenderRequest{
		StyleSlug:    req.StyleSlug,
		HeadScale:    req.HeadScale,
		HeadCentroid: req.HeadCentroid,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/render", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("render request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("render service returned %s", resp.Status)
	}

	var decoded remoteRenderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode render response: %w", err)
	}

	views := &media.ViewSet{}
	for _, name := range media.ViewNames {
		encoded, ok := decoded.Views[name]
		if !ok {
			return nil, fmt.Errorf("render response missing %s view", name)
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode %s view: %w", name, err)
		}
		views.Set(name, data)
	}
	return views, nil
}

func (c *Client) remoteRefine(ctx context.Context, view []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/refine", bytes.NewReader(view))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refine request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("refine service returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// syntheticViews builds deterministic placeholder views keyed on the style
// slug, one base color per camera angle.
func (c *Client) syntheticViews(req media.RenderRequest) *media.ViewSet {
	seed := deterministicSeed(req.StyleSlug, req.HeadScale)
	views := &media.ViewSet{}
	for i, name := range media.ViewNames {
		views.Set(name, renderSyntheticView(512, 512, seed, i))
	}

	c.logger.Debug().
		Str("slug", req.StyleSlug).
		Msg("render: generated synthetic placeholder views")

	return views
}

func renderSyntheticView(width, height int, seed string, shift int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, shift)
	accent := colorFromSeed(seed, shift+1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	bandHeight := height / 8
	band := image.Rect(0, height-bandHeight, width, height)
	draw.Draw(img, band, &image.Uniform{accent}, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	r := mustParseHexByte(segment[0:2])
	g := mustParseHexByte(segment[2:4])
	b := mustParseHexByte(segment[4:6])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func mustParseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
