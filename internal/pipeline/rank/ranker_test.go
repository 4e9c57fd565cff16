package rank

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hairworks/internal/domain"

	"github.com/rs/zerolog"
)

type fakeCatalog struct {
	entries   []domain.CatalogEntry
	err       error
	gotFilter domain.CatalogFilter
}

func (f *fakeCatalog) List(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogEntry, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.CatalogEntry
	for _, e := range f.entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestScore(t *testing.T) {
	entry := domain.CatalogEntry{
		CompatRound:    0.8,
		CompatOval:     0.9,
		BonusCurlyHair: 0.1,
		BonusFineHair:  0.2,
	}

	tests := []struct {
		name    string
		shape   domain.HeadShape
		texture domain.HairTexture
		want    float64
	}{
		{name: "round curly", shape: domain.HeadShapeRound, texture: domain.TextureCurly, want: 0.9},
		{name: "oval straight", shape: domain.HeadShapeOval, texture: domain.TextureStraight, want: 1.0},
		{name: "round wavy no bonus", shape: domain.HeadShapeRound, texture: domain.TextureWavy, want: 0.8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(entry, tc.shape, tc.texture); got != tc.want {
				t.Fatalf("Score() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReasons(t *testing.T) {
	got := Reasons(domain.HeadShapeRound, domain.TextureCurly, domain.TextureCurly)
	if len(got) != 2 {
		t.Fatalf("Reasons() returned %d entries, want 2: %v", len(got), got)
	}
	if got[0] != "This style adds height to balance a round face" {
		t.Errorf("shape tip = %q", got[0])
	}
	if got[1] != "Works great with your curly hair texture" {
		t.Errorf("texture reason = %q", got[1])
	}

	got = Reasons(domain.HeadShapeOval, domain.TextureCurly, domain.TextureStraight)
	if len(got) != 1 {
		t.Fatalf("texture mismatch should yield only the shape tip, got %v", got)
	}

	got = Reasons(domain.HeadShape("unknown"), domain.TextureStraight, "")
	if len(got) != 0 {
		t.Fatalf("unknown shape with no texture should yield no reasons, got %v", got)
	}
}

func TestRankOrdersByScoreThenName(t *testing.T) {
	catalog := &fakeCatalog{entries: []domain.CatalogEntry{
		{Name: "Crew Cut", Slug: "crew-cut", CompatRound: 0.6},
		{Name: "Afro", Slug: "afro", CompatRound: 0.9},
		{Name: "Buzz", Slug: "buzz", CompatRound: 0.9},
		{Name: "Buzz", Slug: "aaa-buzz", CompatRound: 0.9},
	}}
	r := NewRanker(catalog, zerolog.Nop())

	ranked, err := r.Rank(context.Background(), domain.HeadShapeRound, domain.Preferences{}, domain.TextureStraight)
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}

	want := []string{"afro", "aaa-buzz", "buzz", "crew-cut"}
	if len(ranked) != len(want) {
		t.Fatalf("ranked %d styles, want %d", len(ranked), len(want))
	}
	for i, slug := range want {
		if ranked[i].Entry.Slug != slug {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Entry.Slug, slug)
		}
	}
}

func TestRankTruncatesToTopN(t *testing.T) {
	catalog := &fakeCatalog{}
	for i := 0; i < TopN+5; i++ {
		catalog.entries = append(catalog.entries, domain.CatalogEntry{
			Name:       fmt.Sprintf("Style %02d", i),
			Slug:       fmt.Sprintf("style-%02d", i),
			CompatOval: float64(i) / 100,
		})
	}
	r := NewRanker(catalog, zerolog.Nop())

	ranked, err := r.Rank(context.Background(), domain.HeadShapeOval, domain.Preferences{}, "")
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}
	if len(ranked) != TopN {
		t.Fatalf("ranked %d styles, want %d", len(ranked), TopN)
	}
	if ranked[0].Entry.Slug != fmt.Sprintf("style-%02d", TopN+4) {
		t.Errorf("top style = %s, want the highest-scored entry", ranked[0].Entry.Slug)
	}
}

func TestRankPassesPreferenceFilter(t *testing.T) {
	catalog := &fakeCatalog{entries: []domain.CatalogEntry{
		{Name: "Bob", Slug: "bob", Gender: "female", Length: "medium", Maintenance: "low"},
		{Name: "Fade", Slug: "fade", Gender: "male", Length: "short", Maintenance: "low"},
		{Name: "Shag", Slug: "shag", Gender: domain.GenderUnisex, Length: "medium", Maintenance: "high"},
	}}
	r := NewRanker(catalog, zerolog.Nop())

	prefs := domain.Preferences{Gender: "female", Length: "medium"}
	ranked, err := r.Rank(context.Background(), domain.HeadShapeOval, prefs, "")
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}

	wantFilter := domain.CatalogFilter{Gender: "female", Length: "medium"}
	if catalog.gotFilter != wantFilter {
		t.Fatalf("filter = %+v, want %+v", catalog.gotFilter, wantFilter)
	}
	got := map[string]bool{}
	for _, rs := range ranked {
		got[rs.Entry.Slug] = true
	}
	if !got["bob"] || !got["shag"] || got["fade"] {
		t.Fatalf("ranked slugs = %v, want bob and shag only", got)
	}
}

func TestRankPropagatesCatalogError(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("connection reset")}
	r := NewRanker(catalog, zerolog.Nop())

	if _, err := r.Rank(context.Background(), domain.HeadShapeOval, domain.Preferences{}, ""); err == nil {
		t.Fatal("Rank() should surface catalog errors")
	}
}
