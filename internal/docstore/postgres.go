package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"tarim-admin/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add stores data under a generated id and returns it.
func (s *PostgresStore) Add(ctx context.Context, collection string, data any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Set creates or replaces the whole document.
func (s *PostgresStore) Set(ctx context.Context, collection, id string, data any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "docstore"),
		zap.String("method", "Set"),
		zap.String("collection", collection),
		zap.String("id", id),
	)

	if id == "" {
		return ErrEmptyID
	}

	body, err := encodeObject(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, collection, id, body)
	if err != nil {
		log.Error("failed to set document", zap.Error(err))
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id)

	doc, err := scanDocument(row)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get document",
			zap.String("layer", "docstore"),
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	return doc, nil
}

// Update merges fields into the top level of an existing document.
// A nil field value removes that key.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "docstore"),
		zap.String("method", "Update"),
		zap.String("collection", collection),
		zap.String("id", id),
	)

	set, removed := splitNulls(fields)
	body, err := encodeObject(set)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET data = (data - $4::text[]) || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, collection, id, body, pq.Array(removed))
	if err != nil {
		log.Error("failed to update document", zap.Error(err))
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// splitNulls separates keys to merge from keys whose value is nil.
// Removed keys are sorted.
func splitNulls(fields map[string]any) (map[string]any, []string) {
	set := make(map[string]any, len(fields))
	removed := []string{}
	for k, v := range fields {
		if v == nil {
			removed = append(removed, k)
			continue
		}
		set[k] = v
	}
	sort.Strings(removed)
	return set, removed
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to delete document",
			zap.String("layer", "docstore"),
			zap.String("collection", collection),
			zap.String("id", id),
			zap.Error(err),
		)
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY created_at ASC, id ASC
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return scanDocuments(rows)
}

// Where returns the documents whose top-level field equals value.
func (s *PostgresStore) Where(ctx context.Context, collection, field string, value any) ([]Document, error) {
	if field == "" {
		return nil, ErrEmptyField
	}

	filter, err := encodeObject(map[string]any{field: value})
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY created_at ASC, id ASC
	`, collection, filter)
	if err != nil {
		return nil, fmt.Errorf("query %s where %s: %w", collection, field, err)
	}
	return scanDocuments(rows)
}

func scanDocuments(rows *sql.Rows) ([]Document, error) {
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (*Document, error) {
	var (
		doc Document
		raw []byte
	)
	if err := sc.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	doc.Data = raw
	return &doc, nil
}
