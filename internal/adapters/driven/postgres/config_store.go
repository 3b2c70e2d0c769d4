package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/biredirect/internal/core/domain"
	"github.com/custodia-labs/biredirect/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConfigStore = (*ConfigStore)(nil)

// uniqueViolation is the Postgres error code for a primary key conflict
const uniqueViolation = "23505"

// ConfigStore implements driven.ConfigStore using a JSONB table
type ConfigStore struct {
	db *DB
}

// NewConfigStore creates a new ConfigStore
func NewConfigStore(db *DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Exists reports whether a record with the name is stored
func (s *ConfigStore) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM configs WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check config exists: %w", err)
	}
	return exists, nil
}

// Insert stores a new record
func (s *ConfigStore) Insert(ctx context.Context, record domain.ConfigRecord) (domain.ConfigRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	document, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO configs (name, document) VALUES ($1, $2)`,
		record.Name(), document,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert config: %w", err)
	}

	return record.Clone(), nil
}

// List returns all records ordered by name
func (s *ConfigStore) List(ctx context.Context) ([]domain.ConfigRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM configs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ConfigRecord, 0)
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		record, err := decodeConfig(document)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Get retrieves a record by name
func (s *ConfigStore) Get(ctx context.Context, name string) (domain.ConfigRecord, error) {
	return s.get(ctx, s.db.DB, name, "")
}

// Update merges patch over the stored record inside a transaction.
// The row lock serializes concurrent updates of the same name.
func (s *ConfigStore) Update(ctx context.Context, name string, patch domain.ConfigRecord) (domain.ConfigRecord, error) {
	var merged domain.ConfigRecord

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		current, err := s.get(ctx, tx, name, " FOR UPDATE")
		if err != nil {
			return err
		}

		merged = current.Merge(patch)
		document, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE configs SET document = $2, updated_at = NOW() WHERE name = $1`,
			name, document,
		)
		if err != nil {
			return fmt.Errorf("update config: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}

// Delete removes a record, reporting whether anything was deleted
func (s *ConfigStore) Delete(ctx context.Context, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM configs WHERE name = $1`, name)
	if err != nil {
		return false, fmt.Errorf("delete config: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *ConfigStore) get(ctx context.Context, q queryRower, name, lock string) (domain.ConfigRecord, error) {
	var document []byte
	err := q.QueryRowContext(ctx,
		`SELECT document FROM configs WHERE name = $1`+lock, name,
	).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}

	return decodeConfig(document)
}

func decodeConfig(document []byte) (domain.ConfigRecord, error) {
	var record domain.ConfigRecord
	if err := json.Unmarshal(document, &record); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return record, nil
}
