// Package frames picks a small, diverse, sharp subset of the extracted video
// frames: blurry frames are dropped against a percentile noise floor, the
// survivors are binned by estimated head yaw, and the sharpest frame wins
// each bin.
package frames

import (
	"context"
	"errors"
	"math"
	"sort"

	"hairworks/internal/domain"
	"hairworks/internal/infra"
	"hairworks/internal/media"
)

const (
	// MaxFrames caps the selection size.
	MaxFrames = 8
	// YawBins partitions [-90°, 90°]: profile-left, slight-left, slight-right, profile-right.
	YawBins = 4
	// minFrames is the backfill target when binning collapses.
	minFrames = 2
	// noiseFloorPercentile is the sharpness percentile below which frames are dropped.
	noiseFloorPercentile = 20.0
)

// Candidate is one scored frame. It exists only within a single selection run.
type Candidate struct {
	Path      string
	Sharpness float64
	Yaw       float64
}

// Selector scores and selects frames using the landmark detector for yaw.
type Selector struct {
	detector media.LandmarkDetector
	logger   infra.Logger
}

// NewSelector constructs a frame selector.
func NewSelector(detector media.LandmarkDetector, logger infra.Logger) *Selector {
	return &Selector{detector: detector, logger: logger}
}

// SelectFrames scores every frame and returns the selected paths. Frames with
// no detectable face keep yaw 0 so a face is never required.
func (s *Selector) SelectFrames(ctx context.Context, framePaths []string) ([]string, error) {
	if len(framePaths) == 0 {
		return nil, nil
	}

	candidates := make([]Candidate, 0, len(framePaths))
	for _, path := range framePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sharpness, err := SharpnessScore(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("frame", path).Msg("frames: unreadable frame scored 0")
			sharpness = 0
		}

		yaw := 0.0
		landmarks, err := s.detector.Detect(ctx, path)
		switch {
		case err == nil:
			yaw = EstimateYaw(landmarks)
		case errors.Is(err, domain.ErrNoFace):
			// keep yaw 0
		default:
			return nil, err
		}

		candidates = append(candidates, Candidate{Path: path, Sharpness: sharpness, Yaw: yaw})
	}

	selected := Pick(candidates)
	s.logger.Info().
		Int("selected", len(selected)).
		Int("total", len(framePaths)).
		Msg("frames: selection complete")

	paths := make([]string, len(selected))
	for i, c := range selected {
		paths[i] = c.Path
	}
	return paths, nil
}

// Pick runs the pure selection algorithm over scored candidates. The returned
// order is bin order followed by backfill order; it is not re-sorted.
func Pick(candidates []Candidate) []Candidate {
	if len(candidates) == 0 {
		return nil
	}

	// Drop frames below the sharpness noise floor.
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = c.Sharpness
	}
	floor := percentile(scores, noiseFloorPercentile)

	surviving := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Sharpness >= floor {
			surviving = append(surviving, c)
		}
	}
	if len(surviving) == 0 {
		return []Candidate{candidates[0]}
	}

	// Keep the sharpest frame per yaw bin.
	binSize := 180.0 / YawBins
	best := make([]*Candidate, YawBins)
	for i := range surviving {
		c := &surviving[i]
		idx := int((c.Yaw + 90.0) / binSize)
		if idx < 0 {
			idx = 0
		}
		if idx >= YawBins {
			idx = YawBins - 1
		}
		if best[idx] == nil || c.Sharpness > best[idx].Sharpness {
			best[idx] = c
		}
	}

	selected := make([]Candidate, 0, YawBins)
	chosen := make(map[string]bool, YawBins)
	for _, c := range best {
		if c != nil {
			selected = append(selected, *c)
			chosen[c.Path] = true
		}
	}

	// Backfill by descending sharpness if binning collapsed.
	if len(selected) < minFrames {
		backfill := make([]Candidate, len(surviving))
		copy(backfill, surviving)
		sort.SliceStable(backfill, func(i, j int) bool {
			return backfill[i].Sharpness > backfill[j].Sharpness
		})
		for _, c := range backfill {
			if len(selected) >= minFrames {
				break
			}
			if chosen[c.Path] {
				continue
			}
			selected = append(selected, c)
			chosen[c.Path] = true
		}
	}

	if len(selected) > MaxFrames {
		selected = selected[:MaxFrames]
	}
	return selected
}

// EstimateYaw approximates left-right head rotation in degrees (-90..90)
// from the nose tip and the outer eye corners.
func EstimateYaw(landmarks media.Landmarks) float64 {
	nose, okN := landmarks[media.LandmarkNoseTip]
	left, okL := landmarks[media.LandmarkLeftEyeOuter]
	right, okR := landmarks[media.LandmarkRightEyeOuter]
	if !okN || !okL || !okR {
		return 0
	}

	centerX := (left.X + right.X) / 2
	centerZ := (left.Z + right.Z) / 2
	yaw := math.Atan2(nose.X-centerX, nose.Z-centerZ) * 180 / math.Pi
	if yaw > 90 {
		yaw = 90
	}
	if yaw < -90 {
		yaw = -90
	}
	return yaw
}

// percentile computes the p-th percentile with linear interpolation.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
