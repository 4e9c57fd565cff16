package domain

// HeadParams are the fitted head-model parameters consumed by the renderer.
type HeadParams struct {
	Shape      []float64 `json:"shape"`
	Pose       []float64 `json:"pose"`
	Expression []float64 `json:"expression"`
	Scale      float64   `json:"scale"`
	Centroid   []float64 `json:"centroid"`
}

// DefaultHeadParams returns the average-head parameters used whenever fitting
// is disabled or fails.
func DefaultHeadParams() HeadParams {
	return HeadParams{
		Shape:      make([]float64, 100),
		Pose:       make([]float64, 6),
		Expression: make([]float64, 50),
		Scale:      1.0,
		Centroid:   []float64{0, 0, 0},
	}
}
