package faceshape

import (
	"context"
	"errors"
	"testing"

	"hairworks/internal/domain"
	"hairworks/internal/media"

	"github.com/rs/zerolog"
)

// scriptedDetector returns canned landmark sets keyed by frame path.
type scriptedDetector struct {
	frames map[string]media.Landmarks
	err    error
}

func (d *scriptedDetector) Detect(ctx context.Context, framePath string) (media.Landmarks, error) {
	if d.err != nil {
		return nil, d.err
	}
	landmarks, ok := d.frames[framePath]
	if !ok {
		return nil, domain.ErrNoFace
	}
	return landmarks, nil
}

// faceLandmarks builds a landmark set with the given face height, face width
// and jaw width, all in pixels.
func faceLandmarks(height, width, jaw float64) media.Landmarks {
	return media.Landmarks{
		media.LandmarkForeheadTop: {X: 100, Y: 0},
		media.LandmarkChinBottom:  {X: 100, Y: height},
		media.LandmarkLeftCheek:   {X: 100 - width/2, Y: 80},
		media.LandmarkRightCheek:  {X: 100 + width/2, Y: 80},
		media.LandmarkJawLeft:     {X: 100 - jaw/2, Y: 130},
		media.LandmarkJawRight:    {X: 100 + jaw/2, Y: 130},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		faceRatio float64
		jawRatio  float64
		want      domain.HeadShape
	}{
		{name: "very elongated", faceRatio: 1.6, jawRatio: 0.8, want: domain.HeadShapeOblong},
		{name: "long wide jaw", faceRatio: 1.4, jawRatio: 0.8, want: domain.HeadShapeOval},
		{name: "long narrow jaw", faceRatio: 1.4, jawRatio: 0.7, want: domain.HeadShapeHeart},
		{name: "wide jaw", faceRatio: 1.2, jawRatio: 0.95, want: domain.HeadShapeSquare},
		{name: "short face", faceRatio: 1.0, jawRatio: 0.8, want: domain.HeadShapeRound},
		{name: "narrow jaw", faceRatio: 1.2, jawRatio: 0.6, want: domain.HeadShapeDiamond},
		{name: "balanced", faceRatio: 1.2, jawRatio: 0.8, want: domain.HeadShapeOval},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.faceRatio, tc.jawRatio); got != tc.want {
				t.Fatalf("Classify(%v, %v) = %s, want %s", tc.faceRatio, tc.jawRatio, got, tc.want)
			}
		})
	}
}

func TestAnalyzeFramesAveragesRatios(t *testing.T) {
	detector := &scriptedDetector{frames: map[string]media.Landmarks{
		"a.png": faceLandmarks(140, 100, 80),
		"b.png": faceLandmarks(160, 100, 80),
	}}
	a := NewAnalyzer(detector, zerolog.Nop())

	got, err := a.AnalyzeFrames(context.Background(), []string{"a.png", "b.png"})
	if err != nil {
		t.Fatalf("AnalyzeFrames() error: %v", err)
	}
	// Mean face ratio is 1.5, mean jaw ratio 0.8, which classifies as oval.
	if got.HeadShape != domain.HeadShapeOval {
		t.Errorf("HeadShape = %s, want oval", got.HeadShape)
	}
	if got.FaceRatio < 1.49 || got.FaceRatio > 1.51 {
		t.Errorf("FaceRatio = %v, want ~1.5", got.FaceRatio)
	}
	if got.JawRatio < 0.79 || got.JawRatio > 0.81 {
		t.Errorf("JawRatio = %v, want ~0.8", got.JawRatio)
	}
}

func TestAnalyzeFramesSkipsFramesWithoutFaces(t *testing.T) {
	detector := &scriptedDetector{frames: map[string]media.Landmarks{
		"face.png": faceLandmarks(90, 100, 80),
	}}
	a := NewAnalyzer(detector, zerolog.Nop())

	got, err := a.AnalyzeFrames(context.Background(), []string{"empty.png", "face.png", "also-empty.png"})
	if err != nil {
		t.Fatalf("AnalyzeFrames() error: %v", err)
	}
	if got.HeadShape != domain.HeadShapeRound {
		t.Errorf("HeadShape = %s, want round from the single measurable frame", got.HeadShape)
	}
}

func TestAnalyzeFramesNoFacesDefaultsToOval(t *testing.T) {
	a := NewAnalyzer(&scriptedDetector{}, zerolog.Nop())

	got, err := a.AnalyzeFrames(context.Background(), []string{"a.png", "b.png"})
	if err != nil {
		t.Fatalf("AnalyzeFrames() error: %v", err)
	}
	if got.HeadShape != domain.HeadShapeOval {
		t.Errorf("HeadShape = %s, want oval default", got.HeadShape)
	}
	if got.HairTexture != domain.TextureStraight {
		t.Errorf("HairTexture = %s, want straight default", got.HairTexture)
	}
}

func TestAnalyzeFramesIgnoresDegenerateMeasurements(t *testing.T) {
	// Tiny faces (below the 10px floor) are discarded like no-face frames.
	detector := &scriptedDetector{frames: map[string]media.Landmarks{
		"tiny.png": faceLandmarks(5, 4, 3),
	}}
	a := NewAnalyzer(detector, zerolog.Nop())

	got, err := a.AnalyzeFrames(context.Background(), []string{"tiny.png"})
	if err != nil {
		t.Fatalf("AnalyzeFrames() error: %v", err)
	}
	if got.HeadShape != domain.HeadShapeOval {
		t.Errorf("HeadShape = %s, want oval default", got.HeadShape)
	}
}

func TestAnalyzeFramesPropagatesDetectorError(t *testing.T) {
	detector := &scriptedDetector{err: errors.New("detector unavailable")}
	a := NewAnalyzer(detector, zerolog.Nop())

	if _, err := a.AnalyzeFrames(context.Background(), []string{"a.png"}); err == nil {
		t.Fatal("AnalyzeFrames() should surface detector errors")
	}
}
