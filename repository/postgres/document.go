// Package postgres stores each collection as a table of JSONB documents. The id and the lookup
// key (document number or person reference) live in their own columns so the unique and
// lookup indexes are enforced by Postgres.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/clients/domain"
)

const uniqueViolation = "23505"

// ErrDuplicateKey is wrapped into a STORE domain error when Postgres rejects a unique key.
var ErrDuplicateKey = errors.New("duplicate key")

type table[T any] struct {
	pool      *pgxpool.Pool
	name      string
	keyColumn string
	notFound  error

	id    func(*T) string
	setID func(*T, string)
	key   func(*T) string
	fix   func(*T)
}

func (t *table[T]) save(ctx context.Context, doc *T) (*T, error) {
	if doc == nil {
		return nil, domain.ErrInvalidPayload
	}
	stored := *doc
	if t.id(&stored) == "" {
		t.setID(&stored, uuid.NewString())
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "encode "+t.name, err)
	}
	if _, err := t.pool.Exec(ctx, t.upsertSQL(), t.id(&stored), t.key(&stored), payload); err != nil {
		return nil, t.storeErr(err)
	}
	return &stored, nil
}

// saveAll writes the batch inside one transaction so a rejected row leaves nothing behind.
func (t *table[T]) saveAll(ctx context.Context, docs []T) ([]T, error) {
	out := make([]T, 0, len(docs))
	if len(docs) == 0 {
		return out, nil
	}

	batch := &pgx.Batch{}
	query := t.upsertSQL()
	for _, doc := range docs {
		stored := doc
		if t.id(&stored) == "" {
			t.setID(&stored, uuid.NewString())
		}
		payload, err := json.Marshal(stored)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "encode "+t.name, err)
		}
		batch.Queue(query, t.id(&stored), t.key(&stored), payload)
		out = append(out, stored)
	}

	err := pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return nil, t.storeErr(err)
	}
	return out, nil
}

func (t *table[T]) findByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, t.name)
	return t.scanOne(t.pool.QueryRow(ctx, query, id))
}

func (t *table[T]) findByKey(ctx context.Context, key string) (*T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE %s = $1 ORDER BY created_at LIMIT 1`, t.name, t.keyColumn)
	return t.scanOne(t.pool.QueryRow(ctx, query, key))
}

// findAllByID omits missing ids and returns rows in the order of ids.
func (t *table[T]) findAllByID(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return make([]T, 0), nil
	}
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = ANY($1)`, t.name)
	docs, err := t.scanMany(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return orderByIDs(docs, ids, t.id), nil
}

func (t *table[T]) findAll(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s ORDER BY created_at, id`, t.name)
	return t.scanMany(ctx, query)
}

func (t *table[T]) delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)
	tag, err := t.pool.Exec(ctx, query, id)
	if err != nil {
		return t.storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return t.notFound
	}
	return nil
}

func (t *table[T]) upsertSQL() string {
	return fmt.Sprintf(`
	INSERT INTO %[1]s (id, %[2]s, doc, created_at, updated_at)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (id) DO UPDATE
	SET %[2]s = EXCLUDED.%[2]s,
		doc = EXCLUDED.doc,
		updated_at = NOW()
	`, t.name, t.keyColumn)
}

func (t *table[T]) scanOne(row pgx.Row) (*T, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, t.notFound
		}
		return nil, t.storeErr(err)
	}
	return t.decode(payload)
}

func (t *table[T]) scanMany(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := t.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, t.storeErr(err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, t.storeErr(err)
		}
		doc, err := t.decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, t.storeErr(err)
	}
	return out, nil
}

func (t *table[T]) decode(payload []byte) (*T, error) {
	var doc T
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "decode "+t.name, err)
	}
	if t.fix != nil {
		t.fix(&doc)
	}
	return &doc, nil
}

func (t *table[T]) storeErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.StoreError(t.name, fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName))
	}
	return domain.StoreError(t.name, err)
}

func orderByIDs[T any](docs []T, ids []string, id func(*T) string) []T {
	byID := make(map[string]T, len(docs))
	for i := range docs {
		byID[id(&docs[i])] = docs[i]
	}
	out := make([]T, 0, len(docs))
	for _, want := range ids {
		if doc, ok := byID[want]; ok {
			out = append(out, doc)
			delete(byID, want)
		}
	}
	return out
}
