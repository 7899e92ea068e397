package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/medimart/medi-server/repositories"
	"go.uber.org/zap"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures
const uniqueViolation = "23505"

// Collection stores documents of one model as JSONB rows of a single table
type Collection[T any, PT interface {
	*T
	repositories.Document
}] struct {
	db     *DB
	table  string
	logger *zap.Logger
}

// NewCollection creates a collection backed by table
func NewCollection[T any, PT interface {
	*T
	repositories.Document
}](db *DB, table string, logger *zap.Logger) *Collection[T, PT] {
	return &Collection[T, PT]{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// Find returns documents containing every filter field, oldest first
func (c *Collection[T, PT]) Find(ctx context.Context, filter repositories.Filter) ([]*T, error) {
	cond, err := encode(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, doc FROM %s WHERE doc @> $1::jsonb ORDER BY created_at, id`,
		pq.QuoteIdentifier(c.table))

	rows, err := GetExecutor(ctx, c.db).QueryContext(ctx, query, cond)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.table, err)
	}
	defer rows.Close()

	docs := make([]*T, 0)
	for rows.Next() {
		doc, err := c.scan(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", c.table, err)
	}

	return docs, nil
}

// FindOne returns the oldest document matching the filter
func (c *Collection[T, PT]) FindOne(ctx context.Context, filter repositories.Filter) (*T, error) {
	cond, err := encode(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, doc FROM %s WHERE doc @> $1::jsonb ORDER BY created_at, id LIMIT 1`,
		pq.QuoteIdentifier(c.table))

	doc, err := c.scan(GetExecutor(ctx, c.db).QueryRowContext(ctx, query, cond))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", c.table, repositories.ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

// FindByID returns the document with the given id
func (c *Collection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %s WHERE id = $1`, pq.QuoteIdentifier(c.table))

	doc, err := c.scan(GetExecutor(ctx, c.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", c.table, id, repositories.ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

// Insert stores doc under a new UUID unless it already carries an id
func (c *Collection[T, PT]) Insert(ctx context.Context, doc *T) (string, error) {
	d := PT(doc)
	if d.GetID() == "" {
		d.SetID(uuid.NewString())
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s document: %w", c.table, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, pq.QuoteIdentifier(c.table))
	if _, err := GetExecutor(ctx, c.db).ExecContext(ctx, query, d.GetID(), raw); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return "", fmt.Errorf("%s: %w", c.table, repositories.ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to insert into %s: %w", c.table, err)
	}

	c.logger.Debug("document inserted", zap.String("collection", c.table), zap.String("id", d.GetID()))
	return d.GetID(), nil
}

// UpdateByID merges the given fields into the stored document
func (c *Collection[T, PT]) UpdateByID(ctx context.Context, id string, update repositories.Update) error {
	fields := make(map[string]interface{}, len(update))
	for k, v := range update {
		if k == "_id" {
			continue
		}
		fields[k] = v
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s update: %w", c.table, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1`, pq.QuoteIdentifier(c.table))
	res, err := GetExecutor(ctx, c.db).ExecContext(ctx, query, id, raw)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("%s: %w", c.table, repositories.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update %s: %w", c.table, err)
	}

	return c.requireAffected(res, id)
}

// IncrementByID adds delta to a numeric field in a single UPDATE statement
func (c *Collection[T, PT]) IncrementByID(ctx context.Context, id string, field string, delta int64) error {
	if field == "_id" {
		return fmt.Errorf("%s: cannot increment _id", c.table)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = jsonb_set(doc, ARRAY[$2::text], to_jsonb(COALESCE((doc->>$2::text)::numeric, 0) + $3::numeric)) WHERE id = $1`,
		pq.QuoteIdentifier(c.table))
	res, err := GetExecutor(ctx, c.db).ExecContext(ctx, query, id, field, delta)
	if err != nil {
		return fmt.Errorf("failed to increment %s.%s: %w", c.table, field, err)
	}
	return c.requireAffected(res, id)
}

// DeleteByID removes one document
func (c *Collection[T, PT]) DeleteByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pq.QuoteIdentifier(c.table))
	res, err := GetExecutor(ctx, c.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", c.table, err)
	}
	return c.requireAffected(res, id)
}

// DeleteMany removes every document matching the filter
func (c *Collection[T, PT]) DeleteMany(ctx context.Context, filter repositories.Filter) (int64, error) {
	cond, err := encode(filter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE doc @> $1::jsonb`, pq.QuoteIdentifier(c.table))
	res, err := GetExecutor(ctx, c.db).ExecContext(ctx, query, cond)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", c.table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (c *Collection[T, PT]) scan(row rowScanner) (*T, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan %s row: %w", c.table, err)
	}

	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s document %s: %w", c.table, id, err)
	}
	PT(doc).SetID(id)
	return doc, nil
}

func (c *Collection[T, PT]) requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", c.table, id, repositories.ErrNotFound)
	}
	return nil
}

// encode turns a filter into a JSONB containment document; nil encodes as {}
func encode(filter repositories.Filter) (string, error) {
	if filter == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("failed to encode filter: %w", err)
	}
	return string(raw), nil
}
