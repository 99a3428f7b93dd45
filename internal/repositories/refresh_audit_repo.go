package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sipor/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories need. pgxmock
// satisfies it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RefreshAuditRepository interface {
	// Create a new refresh audit entry
	Create(ctx context.Context, audit *models.RefreshAudit) error

	// List refresh audits, newest first
	List(ctx context.Context, limit, offset int) ([]*models.RefreshAudit, error)

	// Latest returns the most recent refresh audit
	Latest(ctx context.Context) (*models.RefreshAudit, error)
}

type refreshAuditRepo struct {
	db Database
}

func NewRefreshAuditRepo(db Database) RefreshAuditRepository {
	return &refreshAuditRepo{db: db}
}

func (r *refreshAuditRepo) Create(ctx context.Context, audit *models.RefreshAudit) error {
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.LoadedAt.IsZero() {
		audit.LoadedAt = time.Now()
	}

	warningsBytes, err := json.Marshal(audit.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `
		INSERT INTO refresh_audits (id, snapshot_id, source_key, rows_read, inventory_rows, event_rows, coerced_quantities, undated_rows, warnings, loaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.Exec(ctx, query,
		audit.ID,
		audit.SnapshotID,
		audit.SourceKey,
		audit.RowsRead,
		audit.InventoryRows,
		audit.EventRows,
		audit.CoercedQuantities,
		audit.UndatedRows,
		warningsBytes,
		audit.LoadedAt,
	)

	return err
}

func (r *refreshAuditRepo) List(ctx context.Context, limit, offset int) ([]*models.RefreshAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, snapshot_id, source_key, rows_read, inventory_rows, event_rows, coerced_quantities, undated_rows, warnings, loaded_at
		FROM refresh_audits
		ORDER BY loaded_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []*models.RefreshAudit
	for rows.Next() {
		audit := &models.RefreshAudit{}
		var warningsBytes []byte

		err := rows.Scan(
			&audit.ID,
			&audit.SnapshotID,
			&audit.SourceKey,
			&audit.RowsRead,
			&audit.InventoryRows,
			&audit.EventRows,
			&audit.CoercedQuantities,
			&audit.UndatedRows,
			&warningsBytes,
			&audit.LoadedAt,
		)
		if err != nil {
			return nil, err
		}

		if len(warningsBytes) > 0 {
			if err := json.Unmarshal(warningsBytes, &audit.Warnings); err != nil {
				return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
			}
		}

		audits = append(audits, audit)
	}

	return audits, nil
}

func (r *refreshAuditRepo) Latest(ctx context.Context) (*models.RefreshAudit, error) {
	audit := &models.RefreshAudit{}
	var warningsBytes []byte

	query := `
		SELECT id, snapshot_id, source_key, rows_read, inventory_rows, event_rows, coerced_quantities, undated_rows, warnings, loaded_at
		FROM refresh_audits
		ORDER BY loaded_at DESC
		LIMIT 1
	`

	err := r.db.QueryRow(ctx, query).Scan(
		&audit.ID,
		&audit.SnapshotID,
		&audit.SourceKey,
		&audit.RowsRead,
		&audit.InventoryRows,
		&audit.EventRows,
		&audit.CoercedQuantities,
		&audit.UndatedRows,
		&warningsBytes,
		&audit.LoadedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(warningsBytes) > 0 {
		if err := json.Unmarshal(warningsBytes, &audit.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}

	return audit, nil
}
