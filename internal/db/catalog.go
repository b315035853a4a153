package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/mindtype/internal/types"
)

// CatalogSource loads catalog tables from the database. It implements catalog.Source.
type CatalogSource struct {
	DB *DB
}

// Name identifies the source in errors and logs.
func (s CatalogSource) Name() string {
	return "postgres"
}

// LoadTables reads all catalog tables.
func (s CatalogSource) LoadTables(ctx context.Context) (*types.CatalogTables, error) {
	return s.DB.LoadCatalogTables(ctx)
}

// LoadCatalogTables reads the eight catalog tables and the latest version label concurrently.
// Each query writes a distinct field, so no locking is needed.
func (db *DB) LoadCatalogTables(ctx context.Context) (*types.CatalogTables, error) {
	var t types.CatalogTables
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		t.Version, err = db.latestCatalogVersion(gCtx)
		return err
	})
	g.Go(func() (err error) {
		t.Categories, err = db.listCategories(gCtx)
		return err
	})
	g.Go(func() (err error) {
		t.MainKeywords, err = db.listMainKeywords(gCtx)
		return err
	})
	g.Go(func() (err error) {
		t.SubKeywords, err = db.listSubKeywords(gCtx)
		return err
	})
	g.Go(func() (err error) {
		t.IntermediateTypes, err = db.listIntermediateTypes(gCtx)
		return err
	})
	g.Go(func() (err error) {
		t.FinalTypes, err = db.listFinalTypes(gCtx)
		return err
	})
	g.Go(func() (err error) {
		t.Scores, err = db.listScores(gCtx)
		return err
	})
	g.Go(func() (err error) {
		t.Combinations, err = db.listCombinations(gCtx)
		return err
	})
	g.Go(func() (err error) {
		t.Weights, err = db.listWeights(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (db *DB) latestCatalogVersion(ctx context.Context) (string, error) {
	var version string
	err := db.pool.QueryRow(ctx,
		`SELECT version FROM catalog_versions ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get catalog version: %w", err)
	}
	return version, nil
}

func (db *DB) listCategories(ctx context.Context) ([]types.Category, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(english_name, ''), COALESCE(description, ''),
		        COALESCE(instruction, ''), display_order
		 FROM categories ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return collect(rows, "categories", func(row pgx.Rows) (types.Category, error) {
		var c types.Category
		err := row.Scan(&c.ID, &c.Name, &c.EnglishName, &c.Description, &c.Instruction, &c.DisplayOrder)
		return c, err
	})
}

func (db *DB) listMainKeywords(ctx context.Context) ([]types.MainKeyword, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, category_id, name, search_volume, display_order
		 FROM main_keywords ORDER BY category_id, display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list main keywords: %w", err)
	}
	return collect(rows, "main keywords", func(row pgx.Rows) (types.MainKeyword, error) {
		var m types.MainKeyword
		err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.SearchVolume, &m.DisplayOrder)
		return m, err
	})
}

func (db *DB) listSubKeywords(ctx context.Context) ([]types.SubKeyword, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, main_keyword_id, name, display_order
		 FROM sub_keywords ORDER BY main_keyword_id, display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub keywords: %w", err)
	}
	return collect(rows, "sub keywords", func(row pgx.Rows) (types.SubKeyword, error) {
		var s types.SubKeyword
		err := row.Scan(&s.ID, &s.MainKeywordID, &s.Name, &s.DisplayOrder)
		return s, err
	})
}

func (db *DB) listIntermediateTypes(ctx context.Context) ([]types.IntermediateType, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(characteristics, ''), display_order
		 FROM intermediate_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list intermediate types: %w", err)
	}
	return collect(rows, "intermediate types", func(row pgx.Rows) (types.IntermediateType, error) {
		var it types.IntermediateType
		err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Characteristics, &it.DisplayOrder)
		return it, err
	})
}

func (db *DB) listFinalTypes(ctx context.Context) ([]types.FinalType, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(animal, ''), COALESCE(group_name, ''), COALESCE(one_liner, ''),
		        COALESCE(overview, ''), COALESCE(greeting, ''), COALESCE(hashtags, '{}'),
		        strengths, weaknesses, COALESCE(relationship_style, ''), COALESCE(behavior_pattern, ''),
		        COALESCE(image_filename, ''), COALESCE(image_filename_right, ''),
		        COALESCE(strength_icons, '{}'), COALESCE(weakness_icons, '{}')
		 FROM final_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list final types: %w", err)
	}
	return collect(rows, "final types", func(row pgx.Rows) (types.FinalType, error) {
		var ft types.FinalType
		var strengths, weaknesses []byte
		if err := row.Scan(&ft.ID, &ft.Name, &ft.Animal, &ft.GroupName, &ft.OneLiner,
			&ft.Overview, &ft.Greeting, &ft.Hashtags,
			&strengths, &weaknesses, &ft.RelationshipStyle, &ft.BehaviorPattern,
			&ft.ImageFilename, &ft.ImageFilenameRight,
			&ft.StrengthIcons, &ft.WeaknessIcons); err != nil {
			return ft, err
		}
		var err error
		if ft.Strengths, err = decodeTraits(strengths); err != nil {
			return ft, fmt.Errorf("final type %d strengths: %w", ft.ID, err)
		}
		if ft.Weaknesses, err = decodeTraits(weaknesses); err != nil {
			return ft, fmt.Errorf("final type %d weaknesses: %w", ft.ID, err)
		}
		return ft, nil
	})
}

func (db *DB) listScores(ctx context.Context) ([]types.KeywordTypeScore, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT sub_keyword_id, intermediate_type_id, score
		 FROM keyword_type_scores ORDER BY sub_keyword_id, intermediate_type_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keyword scores: %w", err)
	}
	return collect(rows, "keyword scores", func(row pgx.Rows) (types.KeywordTypeScore, error) {
		var s types.KeywordTypeScore
		err := row.Scan(&s.SubKeywordID, &s.IntermediateTypeID, &s.Score)
		return s, err
	})
}

func (db *DB) listCombinations(ctx context.Context) ([]types.TypeCombination, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT intermediate_type_ids, final_type_id FROM type_combinations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list type combinations: %w", err)
	}
	return collect(rows, "type combinations", func(row pgx.Rows) (types.TypeCombination, error) {
		var c types.TypeCombination
		var ids []int32
		if err := row.Scan(&ids, &c.FinalTypeID); err != nil {
			return c, err
		}
		c.IntermediateTypeIDs = make([]int, len(ids))
		for i, id := range ids {
			c.IntermediateTypeIDs[i] = int(id)
		}
		return c, nil
	})
}

func (db *DB) listWeights(ctx context.Context) ([]types.CalculationWeight, error) {
	rows, err := db.pool.Query(ctx, `SELECT rank, weight FROM calculation_weights ORDER BY rank`)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculation weights: %w", err)
	}
	return collect(rows, "calculation weights", func(row pgx.Rows) (types.CalculationWeight, error) {
		var w types.CalculationWeight
		err := row.Scan(&w.Rank, &w.Weight)
		return w, err
	})
}

// collect drains rows through scan and closes them.
func collect[T any](rows pgx.Rows, what string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	return out, nil
}

func decodeTraits(raw []byte) ([]types.Trait, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var traits []types.Trait
	if err := json.Unmarshal(raw, &traits); err != nil {
		return nil, err
	}
	return traits, nil
}

func encodeTraits(traits []types.Trait) ([]byte, error) {
	if len(traits) == 0 {
		return nil, nil
	}
	return json.Marshal(traits)
}

// SeedCatalog replaces every catalog table with the given tables in one transaction and
// records the version label.
func (db *DB) SeedCatalog(ctx context.Context, t *types.CatalogTables) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`TRUNCATE keyword_type_scores, type_combinations, calculation_weights,
		          sub_keywords, main_keywords, categories, intermediate_types, final_types`); err != nil {
		return fmt.Errorf("failed to clear catalog tables: %w", err)
	}

	if err := copyRows(ctx, tx, "categories",
		[]string{"id", "name", "english_name", "description", "instruction", "display_order"},
		t.Categories, func(c types.Category) ([]any, error) {
			return []any{c.ID, c.Name, c.EnglishName, c.Description, c.Instruction, c.DisplayOrder}, nil
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "main_keywords",
		[]string{"id", "category_id", "name", "search_volume", "display_order"},
		t.MainKeywords, func(m types.MainKeyword) ([]any, error) {
			return []any{m.ID, m.CategoryID, m.Name, m.SearchVolume, m.DisplayOrder}, nil
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "sub_keywords",
		[]string{"id", "main_keyword_id", "name", "display_order"},
		t.SubKeywords, func(s types.SubKeyword) ([]any, error) {
			return []any{s.ID, s.MainKeywordID, s.Name, s.DisplayOrder}, nil
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "intermediate_types",
		[]string{"id", "name", "description", "characteristics", "display_order"},
		t.IntermediateTypes, func(it types.IntermediateType) ([]any, error) {
			return []any{it.ID, it.Name, it.Description, it.Characteristics, it.DisplayOrder}, nil
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "final_types",
		[]string{"id", "name", "animal", "group_name", "one_liner", "overview", "greeting", "hashtags",
			"strengths", "weaknesses", "relationship_style", "behavior_pattern",
			"image_filename", "image_filename_right", "strength_icons", "weakness_icons"},
		t.FinalTypes, func(ft types.FinalType) ([]any, error) {
			strengths, err := encodeTraits(ft.Strengths)
			if err != nil {
				return nil, err
			}
			weaknesses, err := encodeTraits(ft.Weaknesses)
			if err != nil {
				return nil, err
			}
			return []any{ft.ID, ft.Name, ft.Animal, ft.GroupName, ft.OneLiner, ft.Overview, ft.Greeting,
				ft.Hashtags, strengths, weaknesses, ft.RelationshipStyle, ft.BehaviorPattern,
				ft.ImageFilename, ft.ImageFilenameRight, ft.StrengthIcons, ft.WeaknessIcons}, nil
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "keyword_type_scores",
		[]string{"sub_keyword_id", "intermediate_type_id", "score"},
		t.Scores, func(s types.KeywordTypeScore) ([]any, error) {
			return []any{s.SubKeywordID, s.IntermediateTypeID, s.Score}, nil
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "type_combinations",
		[]string{"intermediate_type_ids", "final_type_id"},
		t.Combinations, func(c types.TypeCombination) ([]any, error) {
			ids := make([]int32, len(c.IntermediateTypeIDs))
			for i, id := range c.IntermediateTypeIDs {
				ids[i] = int32(id)
			}
			return []any{ids, c.FinalTypeID}, nil
		}); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "calculation_weights",
		[]string{"rank", "weight"},
		t.Weights, func(w types.CalculationWeight) ([]any, error) {
			return []any{w.Rank, w.Weight}, nil
		}); err != nil {
		return err
	}

	if t.Version != "" {
		if _, err := tx.Exec(ctx, `INSERT INTO catalog_versions (version) VALUES ($1)`, t.Version); err != nil {
			return fmt.Errorf("failed to record catalog version: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog seed: %w", err)
	}
	return nil
}

func copyRows[T any](ctx context.Context, tx pgx.Tx, table string, columns []string, items []T, row func(T) ([]any, error)) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		values, err := row(item)
		if err != nil {
			return fmt.Errorf("failed to encode %s row: %w", table, err)
		}
		rows = append(rows, values)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to copy %s: %w", table, err)
	}
	return nil
}
