package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresKVStore はPostgreSQLを使用したキー/値ストレージ。
// client_storageテーブルに(namespace, key)単位で保存する。
type PostgresKVStore struct {
	db *sql.DB
}

// NewPostgresKVStore はPostgresKVStoreを生成する。
func NewPostgresKVStore(db *sql.DB) *PostgresKVStore {
	return &PostgresKVStore{db: db}
}

// Get は値を取得する。キーが存在しない場合はokにfalseを返す。
func (s *PostgresKVStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`,
		namespace, key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get storage value: %w", err)
	}

	return value, true, nil
}

// Set は値を保存する。既存の値は上書きする。
func (s *PostgresKVStore) Set(ctx context.Context, namespace, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_storage (namespace, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (namespace, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set storage value: %w", err)
	}
	return nil
}

// Remove は指定キーを削除する。
func (s *PostgresKVStore) Remove(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE namespace = $1 AND key = ANY($2)`,
		namespace, pq.Array(keys),
	)
	if err != nil {
		return fmt.Errorf("failed to remove storage values: %w", err)
	}
	return nil
}

// PingContext はデータベースへの疎通を確認する。ヘルスチェックに使用する。
func (s *PostgresKVStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// compile-time interface check
var _ KeyValueStore = (*PostgresKVStore)(nil)
