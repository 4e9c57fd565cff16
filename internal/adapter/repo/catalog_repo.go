package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hairworks/internal/domain"
)

// CatalogRepositoryPG implements domain.CatalogRepository against the
// read-only hairstyle_catalog table.
type CatalogRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a catalog repository backed by PostgreSQL.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepositoryPG {
	return &CatalogRepositoryPG{pool: pool}
}

// List returns catalog entries matching the filter. Rows come back in a
// stable (name, slug) order; scoring and ranking happen in the ranker.
func (r *CatalogRepositoryPG) List(ctx context.Context, filter domain.CatalogFilter) ([]domain.CatalogEntry, error) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conditions = append(conditions, fmt.Sprintf("(gender = $%d OR gender = 'unisex')", len(args)))
	}
	if filter.Length != "" {
		args = append(args, filter.Length)
		conditions = append(conditions, fmt.Sprintf("length = $%d", len(args)))
	}
	if filter.Maintenance != "" {
		args = append(args, filter.Maintenance)
		conditions = append(conditions, fmt.Sprintf("maintenance = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
SELECT id::text, name, slug, gender, texture, length, maintenance,
       compat_oval, compat_round, compat_square, compat_heart, compat_oblong, compat_diamond,
       bonus_curly_hair, bonus_fine_hair, bonus_thick_hair,
       COALESCE(barber_notes, ''), COALESCE(barber_guard, ''), COALESCE(top_length_cm, 0),
       COALESCE(mesh_s3_key, ''), COALESCE(preview_s3_key, '')
FROM hairstyle_catalog
%s
ORDER BY name, slug;
`, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Slug, &e.Gender, &e.Texture, &e.Length, &e.Maintenance,
			&e.CompatOval, &e.CompatRound, &e.CompatSquare, &e.CompatHeart, &e.CompatOblong, &e.CompatDiamond,
			&e.BonusCurlyHair, &e.BonusFineHair, &e.BonusThickHair,
			&e.BarberNotes, &e.BarberGuard, &e.TopLengthCM,
			&e.MeshKey, &e.PreviewKey,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
