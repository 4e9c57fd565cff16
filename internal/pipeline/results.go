package pipeline

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hairworks/internal/domain"
	"hairworks/internal/pipeline/rank"
)

var titleCaser = cases.Title(language.English)

// AssembleResult bundles one rendered style into its persisted record.
// Scores round to 4 decimal digits; the result is immutable after assembly.
func AssembleResult(position int, style rank.RankedStyle, urls domain.ViewURLs) domain.StyleResult {
	entry := style.Entry
	return domain.StyleResult{
		Rank:        position,
		StyleID:     entry.ID,
		Name:        displayName(entry),
		Slug:        entry.Slug,
		Score:       roundScore(style.Score),
		Reasons:     style.Reasons,
		Texture:     string(entry.Texture),
		Length:      entry.Length,
		Maintenance: entry.Maintenance,
		Views:       urls,
		BarberCard: domain.BarberCard{
			Notes:       entry.BarberNotes,
			Guard:       entry.BarberGuard,
			TopLengthCM: entry.TopLengthCM,
		},
	}
}

// displayName prefers the catalog name, deriving one from the slug for
// entries imported without a display name.
func displayName(entry domain.CatalogEntry) string {
	if entry.Name != "" {
		return entry.Name
	}
	return titleCaser.String(strings.ReplaceAll(entry.Slug, "-", " "))
}

func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
