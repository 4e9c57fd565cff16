package domain

// HeadShape classifies the facial outline used to select compatible styles.
type HeadShape string

const (
	HeadShapeOval    HeadShape = "oval"
	HeadShapeRound   HeadShape = "round"
	HeadShapeSquare  HeadShape = "square"
	HeadShapeHeart   HeadShape = "heart"
	HeadShapeOblong  HeadShape = "oblong"
	HeadShapeDiamond HeadShape = "diamond"
)

// HairTexture enumerates the detectable hair textures.
type HairTexture string

const (
	TextureStraight HairTexture = "straight"
	TextureWavy     HairTexture = "wavy"
	TextureCurly    HairTexture = "curly"
	TextureCoily    HairTexture = "coily"
)

const GenderUnisex = "unisex"

// CatalogEntry is a read-only row from the hairstyle catalog.
type CatalogEntry struct {
	ID          string
	Name        string
	Slug        string
	Gender      string
	Texture     HairTexture
	Length      string
	Maintenance string

	// Head-shape compatibility scores, 0.0–1.0.
	CompatOval    float64
	CompatRound   float64
	CompatSquare  float64
	CompatHeart   float64
	CompatOblong  float64
	CompatDiamond float64

	BonusCurlyHair float64
	BonusFineHair  float64
	BonusThickHair float64

	BarberNotes string
	BarberGuard string
	TopLengthCM float64

	MeshKey    string
	PreviewKey string
}

// Compat returns the entry's compatibility score for the given head shape.
func (e CatalogEntry) Compat(shape HeadShape) float64 {
	switch shape {
	case HeadShapeRound:
		return e.CompatRound
	case HeadShapeSquare:
		return e.CompatSquare
	case HeadShapeHeart:
		return e.CompatHeart
	case HeadShapeOblong:
		return e.CompatOblong
	case HeadShapeDiamond:
		return e.CompatDiamond
	default:
		return e.CompatOval
	}
}

// CatalogFilter narrows a catalog read to entries matching the user's
// preferences. Empty fields match everything; gender additionally matches
// unisex entries.
type CatalogFilter struct {
	Gender      string
	Length      string
	Maintenance string
}

// Matches reports whether the entry satisfies every supplied filter field.
func (f CatalogFilter) Matches(e CatalogEntry) bool {
	if f.Gender != "" && e.Gender != f.Gender && e.Gender != GenderUnisex {
		return false
	}
	if f.Length != "" && e.Length != f.Length {
		return false
	}
	if f.Maintenance != "" && e.Maintenance != f.Maintenance {
		return false
	}
	return true
}
