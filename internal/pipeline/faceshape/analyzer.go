// Package faceshape classifies the head outline from facial landmark
// measurements averaged across the selected frames.
package faceshape

import (
	"context"
	"errors"
	"math"

	"hairworks/internal/domain"
	"hairworks/internal/infra"
	"hairworks/internal/media"
)

// Analysis is the output of the face analysis stage.
type Analysis struct {
	HeadShape   domain.HeadShape
	HairTexture domain.HairTexture
	FaceRatio   float64
	JawRatio    float64
}

// Analyzer derives head shape and hair texture from detector landmarks.
type Analyzer struct {
	detector media.LandmarkDetector
	logger   infra.Logger
}

// NewAnalyzer constructs a face analyzer.
func NewAnalyzer(detector media.LandmarkDetector, logger infra.Logger) *Analyzer {
	return &Analyzer{detector: detector, logger: logger}
}

// AnalyzeFrames measures every frame with a detectable face and classifies
// the averaged ratios. Frames without a face are skipped; if no frame has a
// face the analysis falls back to the oval default rather than failing.
func (a *Analyzer) AnalyzeFrames(ctx context.Context, framePaths []string) (Analysis, error) {
	var ratios, jawRatios []float64

	for _, path := range framePaths {
		if err := ctx.Err(); err != nil {
			return Analysis{}, err
		}

		landmarks, err := a.detector.Detect(ctx, path)
		if errors.Is(err, domain.ErrNoFace) {
			continue
		}
		if err != nil {
			return Analysis{}, err
		}

		faceH := distance(landmarks, media.LandmarkForeheadTop, media.LandmarkChinBottom)
		faceW := distance(landmarks, media.LandmarkLeftCheek, media.LandmarkRightCheek)
		jawW := distance(landmarks, media.LandmarkJawLeft, media.LandmarkJawRight)

		if faceW > 10 && faceH > 10 {
			ratios = append(ratios, faceH/faceW)
			jawRatios = append(jawRatios, jawW/faceW)
		}
	}

	if len(ratios) == 0 {
		a.logger.Info().Msg("faceshape: no faces detected, defaulting to oval")
		return Analysis{HeadShape: domain.HeadShapeOval, HairTexture: domain.TextureStraight}, nil
	}

	avgRatio := mean(ratios)
	avgJaw := mean(jawRatios)
	shape := Classify(avgRatio, avgJaw)

	a.logger.Info().
		Str("head_shape", string(shape)).
		Float64("face_ratio", avgRatio).
		Float64("jaw_ratio", avgJaw).
		Msg("faceshape: analysis complete")

	return Analysis{
		HeadShape:   shape,
		HairTexture: domain.TextureStraight,
		FaceRatio:   avgRatio,
		JawRatio:    avgJaw,
	}, nil
}

// Classify maps the height/width and jaw/width ratios to a head shape.
func Classify(faceRatio, jawRatio float64) domain.HeadShape {
	switch {
	case faceRatio > 1.5:
		return domain.HeadShapeOblong
	case faceRatio > 1.3:
		if jawRatio > 0.75 {
			return domain.HeadShapeOval
		}
		return domain.HeadShapeHeart
	case jawRatio > 0.9:
		return domain.HeadShapeSquare
	case faceRatio < 1.1:
		return domain.HeadShapeRound
	case jawRatio < 0.7:
		return domain.HeadShapeDiamond
	default:
		return domain.HeadShapeOval
	}
}

func distance(landmarks media.Landmarks, a, b string) float64 {
	pa, okA := landmarks[a]
	pb, okB := landmarks[b]
	if !okA || !okB {
		return 0
	}
	dx := pa.X - pb.X
	dy := pa.Y - pb.Y
	return math.Hypot(dx, dy)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
