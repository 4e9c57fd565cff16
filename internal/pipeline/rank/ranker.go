// Package rank scores catalog entries against the detected head shape and the
// user's preferences, producing the ordered shortlist of styles to render.
package rank

import (
	"context"
	"sort"

	"hairworks/internal/domain"
	"hairworks/internal/infra"
)

// TopN caps the number of ranked styles per job.
const TopN = 10

// RankedStyle is one scored catalog entry, ready for rendering.
type RankedStyle struct {
	Entry   domain.CatalogEntry
	Score   float64
	Reasons []string
}

// Ranker reads the catalog and orders entries by compatibility.
type Ranker struct {
	catalog domain.CatalogRepository
	logger  infra.Logger
}

// NewRanker constructs a style ranker.
func NewRanker(catalog domain.CatalogRepository, logger infra.Logger) *Ranker {
	return &Ranker{catalog: catalog, logger: logger}
}

// Rank filters the catalog by the user's preferences, scores each entry for
// the detected head shape and texture, and returns the top entries in
// descending score order. Equal scores order by name, then slug, so ranking
// is deterministic regardless of storage order.
func (r *Ranker) Rank(ctx context.Context, headShape domain.HeadShape, prefs domain.Preferences, texture domain.HairTexture) ([]RankedStyle, error) {
	entries, err := r.catalog.List(ctx, domain.CatalogFilter{
		Gender:      prefs.Gender,
		Length:      prefs.Length,
		Maintenance: prefs.Maintenance,
	})
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedStyle, 0, len(entries))
	for _, entry := range entries {
		ranked = append(ranked, RankedStyle{
			Entry:   entry,
			Score:   Score(entry, headShape, texture),
			Reasons: Reasons(headShape, entry.Texture, texture),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Entry.Name != ranked[j].Entry.Name {
			return ranked[i].Entry.Name < ranked[j].Entry.Name
		}
		return ranked[i].Entry.Slug < ranked[j].Entry.Slug
	})

	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}

	r.logger.Info().
		Int("styles", len(ranked)).
		Str("head_shape", string(headShape)).
		Msg("rank: style selection complete")

	return ranked, nil
}

// Score is the entry's compatibility for the head shape plus its texture
// bonus: the curly bonus for curly hair, half the fine-hair bonus for
// straight hair, nothing otherwise.
func Score(entry domain.CatalogEntry, headShape domain.HeadShape, texture domain.HairTexture) float64 {
	score := entry.Compat(headShape)
	switch texture {
	case domain.TextureCurly:
		score += entry.BonusCurlyHair
	case domain.TextureStraight:
		score += entry.BonusFineHair * 0.5
	}
	return score
}

var shapeTips = map[domain.HeadShape]string{
	domain.HeadShapeOval:    "Oval faces suit virtually any style",
	domain.HeadShapeRound:   "This style adds height to balance a round face",
	domain.HeadShapeSquare:  "Softened layers complement a square jaw",
	domain.HeadShapeHeart:   "Volume at the chin balances a wider forehead",
	domain.HeadShapeOblong:  "Width-adding styles shorten an elongated face",
	domain.HeadShapeDiamond: "Fullness at forehead and chin frames a diamond face",
}

// Reasons builds the human-readable explanation strings for one entry. It is
// a pure function of the head shape and the two textures.
func Reasons(headShape domain.HeadShape, styleTexture, userTexture domain.HairTexture) []string {
	var reasons []string
	if tip, ok := shapeTips[headShape]; ok {
		reasons = append(reasons, tip)
	}
	if userTexture != "" && userTexture == styleTexture {
		reasons = append(reasons, "Works great with your "+string(userTexture)+" hair texture")
	}
	return reasons
}
