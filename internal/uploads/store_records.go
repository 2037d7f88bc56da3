package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewRecord inserts a freshly triggered upload with placeholder content. The
// record starts pending at the first stage; real title, description, and
// trend data arrive later from the growth provider.
func (s *Store) NewRecord(ctx context.Context, format Format) (*Record, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	publicID := uuid.NewString()

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO upload_records (
            public_id, title, description, status, stage,
            thumbnail, format, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		publicID,
		placeholderTitle,
		placeholderDescription,
		StatusPending,
		StageTrendScouting,
		PlaceholderThumbnail(publicID),
		format,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches an upload record by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM upload_records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

// GetByPublicID fetches an upload record by its stable public identifier.
func (s *Store) GetByPublicID(ctx context.Context, publicID string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM upload_records WHERE public_id = ? LIMIT 1`,
		publicID,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record by public id: %w", err)
	}
	return record, nil
}

// Update persists changes to an existing upload record.
func (s *Store) Update(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.UpdatedAt = time.Now().UTC()

	sourcesJSON, err := encodeSources(record.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}
	metricsJSON, err := encodeMetrics(record.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE upload_records
         SET title = ?, description = ?, status = ?, stage = ?, thumbnail = ?,
             format = ?, trend_topic = ?, sources_json = ?, metrics_json = ?,
             error_message = ?, updated_at = ?
         WHERE id = ?`,
		record.Title,
		record.Description,
		record.Status,
		record.Stage,
		record.Thumbnail,
		record.Format,
		nullableString(record.TrendTopic),
		sourcesJSON,
		metricsJSON,
		nullableString(record.ErrorMessage),
		record.UpdatedAt.Format(time.RFC3339Nano),
		record.ID,
	); err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// List returns upload records newest first, filtered by status set (or all
// records when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Record, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + recordColumns + ` FROM upload_records`
	orderClause := ` ORDER BY id DESC`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Active returns the record currently occupying the single-flight slot, or
// nil when every record is terminal.
func (s *Store) Active(ctx context.Context) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM upload_records WHERE status IN (?, ?) ORDER BY id DESC LIMIT 1`,
		StatusPending,
		StatusProcessing,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active record: %w", err)
	}
	return record, nil
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM upload_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}
