// Package media defines the narrow contracts for fetching, slicing and
// publishing job media, plus the typed four-view records passed between the
// renderer, refiner and uploader.
package media

import (
	"context"

	"hairworks/internal/domain"
)

// ViewSet holds the four rendered camera angles as encoded PNG bytes.
type ViewSet struct {
	Front []byte
	Left  []byte
	Right []byte
	Back  []byte
}

// ViewNames lists the canonical view order.
var ViewNames = []string{"front", "left", "right", "back"}

// Get returns the image bytes for the named view.
func (v *ViewSet) Get(name string) []byte {
	switch name {
	case "front":
		return v.Front
	case "left":
		return v.Left
	case "right":
		return v.Right
	case "back":
		return v.Back
	}
	return nil
}

// Set stores the image bytes for the named view.
func (v *ViewSet) Set(name string, data []byte) {
	switch name {
	case "front":
		v.Front = data
	case "left":
		v.Left = data
	case "right":
		v.Right = data
	case "back":
		v.Back = data
	}
}

// VideoFetcher downloads the uploaded video to a local temp file. The caller
// owns the returned path and must remove it.
type VideoFetcher interface {
	Fetch(ctx context.Context, storageKey string) (string, error)
}

// FrameExtractor slices a local video into an ordered sequence of frame
// images under a temp directory. The caller owns the directory.
type FrameExtractor interface {
	Extract(ctx context.Context, videoPath string) ([]string, error)
}

// LandmarkDetector locates named facial landmarks in one frame image. It
// returns domain.ErrNoFace when the frame contains no detectable face.
type LandmarkDetector interface {
	Detect(ctx context.Context, framePath string) (Landmarks, error)
}

// Landmarks maps landmark names to image-space points.
type Landmarks map[string]Point

// Point is a 3-D landmark position in pixel coordinates (z approximate).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Landmark names produced by the detector service.
const (
	LandmarkNoseTip       = "nose_tip"
	LandmarkLeftEyeOuter  = "left_eye_outer"
	LandmarkRightEyeOuter = "right_eye_outer"
	LandmarkForeheadTop   = "forehead_top"
	LandmarkChinBottom    = "chin_bottom"
	LandmarkLeftCheek     = "left_cheek"
	LandmarkRightCheek    = "right_cheek"
	LandmarkJawLeft       = "jaw_left"
	LandmarkJawRight      = "jaw_right"
)

// HeadFitter fits the head model to a frame, falling back to default
// parameters rather than failing the job.
type HeadFitter interface {
	Fit(ctx context.Context, framePaths []string) (domain.HeadParams, error)
}

// Renderer produces the four canonical views for one style.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) (*ViewSet, error)
}

// RenderRequest describes one style render.
type RenderRequest struct {
	StyleSlug    string
	HeadScale    float64
	HeadCentroid []float64
}

// Refiner post-processes the four views in place.
type Refiner interface {
	Refine(ctx context.Context, views *ViewSet) error
}

// ViewUploader publishes the four views and returns public URLs.
type ViewUploader interface {
	Upload(ctx context.Context, jobID, styleSlug string, views *ViewSet) (domain.ViewURLs, error)
}
