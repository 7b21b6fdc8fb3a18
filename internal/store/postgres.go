package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johndosdos/chatrelay/internal/model"
)

const (
	insertMessage = `INSERT INTO messages (nickname, body, created_at)
VALUES ($1, $2, $3)
RETURNING id`

	listMessages = `SELECT id, nickname, body, created_at
FROM messages
ORDER BY id`
)

// PostgresStore keeps messages in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool. The schema is expected to be migrated.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects to dbURL and checks the connection.
func OpenPostgres(ctx context.Context, dbURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, persistenceErr("connect", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, persistenceErr("ping", err)
	}

	return NewPostgresStore(pool), nil
}

// Pool exposes the underlying pool for migrations.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *PostgresStore) Append(ctx context.Context, nickname, body string, createdAt time.Time) (int64, error) {
	if err := validate(nickname, body); err != nil {
		return 0, err
	}

	var id int64
	err := s.pool.QueryRow(ctx, insertMessage,
		nickname,
		body,
		pgtype.Timestamp{Time: createdAtOrNow(createdAt), Valid: true},
	).Scan(&id)
	if err != nil {
		return 0, persistenceErr("insert message", err)
	}

	return id, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]model.ChatMessage, error) {
	rows, err := s.pool.Query(ctx, listMessages)
	if err != nil {
		return nil, persistenceErr("list messages", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ChatMessage, error) {
		var (
			m  model.ChatMessage
			ts pgtype.Timestamp
		)
		if err := row.Scan(&m.ID, &m.Nickname, &m.Body, &ts); err != nil {
			return m, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = ts.Time
		return m, nil
	})
	if err != nil {
		return nil, persistenceErr("list messages", err)
	}

	return messages, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
