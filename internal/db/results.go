package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/mindtype/internal/types"
)

// StoredResult is a persisted classification outcome.
type StoredResult struct {
	ID                      uuid.UUID         `json:"id"`
	FinalTypeID             int               `json:"final_type_id"`
	DominantIntermediateIDs []int             `json:"dominant_intermediate_ids"`
	Selections              []types.Selection `json:"selections"`
	IntermediateScores      types.Vector      `json:"intermediate_scores"`
	CatalogVersion          string            `json:"catalog_version,omitempty"`
	CreatedAt               time.Time         `json:"created_at"`
}

// SaveClassification stores a result and returns its new id. The trace is never persisted.
func (db *DB) SaveClassification(ctx context.Context, result *types.ClassificationResult) (uuid.UUID, error) {
	selections, err := json.Marshal(result.Selections)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal selections: %w", err)
	}
	scores, err := json.Marshal(result.IntermediateScores)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal intermediate scores: %w", err)
	}

	dominant := make([]int32, len(result.DominantIntermediateIDs))
	for i, id := range result.DominantIntermediateIDs {
		dominant[i] = int32(id)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO classification_results
		 (id, final_type_id, dominant_intermediate_ids, selections, intermediate_scores, catalog_version)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, result.FinalTypeID, dominant, selections, scores, result.CatalogVersion,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save classification: %w", err)
	}
	return id, nil
}

// GetClassification retrieves a stored result by id. Returns nil when it does not exist.
func (db *DB) GetClassification(ctx context.Context, id uuid.UUID) (*StoredResult, error) {
	var (
		r          StoredResult
		dominant   []int32
		selections []byte
		scores     []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, final_type_id, dominant_intermediate_ids, selections, intermediate_scores,
		        COALESCE(catalog_version, ''), created_at
		 FROM classification_results WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.FinalTypeID, &dominant, &selections, &scores, &r.CatalogVersion, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get classification: %w", err)
	}

	r.DominantIntermediateIDs = make([]int, len(dominant))
	for i, d := range dominant {
		r.DominantIntermediateIDs[i] = int(d)
	}
	if err := json.Unmarshal(selections, &r.Selections); err != nil {
		return nil, fmt.Errorf("failed to parse stored selections: %w", err)
	}
	if err := json.Unmarshal(scores, &r.IntermediateScores); err != nil {
		return nil, fmt.Errorf("failed to parse stored scores: %w", err)
	}
	return &r, nil
}

// CountByFinalType returns how many stored results landed on each final type.
func (db *DB) CountByFinalType(ctx context.Context) (map[int]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT final_type_id, COUNT(*) FROM classification_results GROUP BY final_type_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count classifications: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var finalTypeID, n int
		if err := rows.Scan(&finalTypeID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan classification count: %w", err)
		}
		counts[finalTypeID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read classification counts: %w", err)
	}
	return counts, nil
}
