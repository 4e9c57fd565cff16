package domain

// ResultVersion identifies the persisted results schema.
const ResultVersion = 1

// BarberCard carries the cut instructions attached to each recommended style.
type BarberCard struct {
	Notes       string  `json:"notes"`
	Guard       string  `json:"guard"`
	TopLengthCM float64 `json:"top_length_cm"`
}

// ViewURLs holds the four rendered camera angles for one style.
type ViewURLs struct {
	Front string `json:"front"`
	Left  string `json:"left"`
	Right string `json:"right"`
	Back  string `json:"back"`
}

// StyleResult is one ranked recommendation as persisted on the job.
// Immutable after assembly.
type StyleResult struct {
	Rank        int        `json:"rank"`
	StyleID     string     `json:"style_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Score       float64    `json:"score"`
	Reasons     []string   `json:"reasons"`
	Texture     string     `json:"texture"`
	Length      string     `json:"length"`
	Maintenance string     `json:"maintenance"`
	Views       ViewURLs   `json:"views"`
	BarberCard  BarberCard `json:"barber_card"`
}

// ResultDocument is the versioned envelope written to the job store when a
// job completes.
type ResultDocument struct {
	Version int           `json:"version"`
	Styles  []StyleResult `json:"styles"`
}
