package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tg_escrow/internal/domain"
	"tg_escrow/pkg/errcodes"
)

// PostgresKV реализует KV поверх одной таблицы escrow_kv. Атомарность Put
// обеспечивает транзакция.
type PostgresKV struct {
	db *sqlx.DB
}

func NewPostgresKV(db *sqlx.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

// withTx выполняет функцию в транзакции.
func (p *PostgresKV) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var b []byte

	err := p.db.GetContext(ctx, &b, `SELECT value FROM escrow_kv WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get key")
	}

	return b, nil
}

func (p *PostgresKV) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows := []struct {
		Key   string `db:"key"`
		Value []byte `db:"value"`
	}{}

	err := p.db.SelectContext(ctx, &rows,
		`SELECT key, value FROM escrow_kv WHERE key LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list keys")
	}

	out := make(map[string][]byte, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}

	return out, nil
}

func (p *PostgresKV) Put(ctx context.Context, pairs map[string][]byte) error {
	return p.withTx(ctx, func(tx *sqlx.Tx) error {
		for key, b := range pairs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO escrow_kv (key, value, updated_at)
				VALUES ($1, $2, now())
				ON CONFLICT (key) DO UPDATE
				SET value = EXCLUDED.value, updated_at = now()`,
				key, b,
			)
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert key")
			}
		}

		return nil
	})
}
