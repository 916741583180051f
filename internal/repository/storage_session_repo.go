package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// StorageSessionRepo はKeyValueStore上にセッションレコードを保存するリポジトリ。
// loggedIn / username / loginTime の3キーで1レコードを表す。
type StorageSessionRepo struct {
	store KeyValueStore
}

// NewStorageSessionRepo はStorageSessionRepoを生成する。
func NewStorageSessionRepo(store KeyValueStore) *StorageSessionRepo {
	return &StorageSessionRepo{store: store}
}

// Find はセッションレコードを取得する。
// loggedInとloginTimeがどちらも存在しない場合はnilを返す。
func (r *StorageSessionRepo) Find(ctx context.Context, clientID string) (*model.Session, error) {
	loggedIn, hasLoggedIn, err := r.store.Get(ctx, clientID, KeyLoggedIn)
	if err != nil {
		return nil, fmt.Errorf("failed to read session flag: %w", err)
	}
	loginTime, hasLoginTime, err := r.store.Get(ctx, clientID, KeyLoginTime)
	if err != nil {
		return nil, fmt.Errorf("failed to read session time: %w", err)
	}
	if !hasLoggedIn && !hasLoginTime {
		return nil, nil
	}

	username, _, err := r.store.Get(ctx, clientID, KeyUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to read session username: %w", err)
	}

	session := &model.Session{
		LoggedIn: loggedIn == "true",
		Username: username,
	}
	// 数値でないloginTimeはゼロ値のまま返し、期限切れとして扱わせる
	if ms, err := strconv.ParseInt(loginTime, 10, 64); err == nil {
		session.LoginTime = time.UnixMilli(ms)
	}

	return session, nil
}

// Save はセッションレコードを保存する。
func (r *StorageSessionRepo) Save(ctx context.Context, clientID string, session *model.Session) error {
	if !session.LoggedIn {
		return fmt.Errorf("refusing to save a logged-out session")
	}
	if err := r.store.Set(ctx, clientID, KeyLoggedIn, "true"); err != nil {
		return fmt.Errorf("failed to save session flag: %w", err)
	}
	if err := r.store.Set(ctx, clientID, KeyUsername, session.Username); err != nil {
		return fmt.Errorf("failed to save session username: %w", err)
	}
	if err := r.store.Set(ctx, clientID, KeyLoginTime, strconv.FormatInt(session.LoginTime.UnixMilli(), 10)); err != nil {
		return fmt.Errorf("failed to save session time: %w", err)
	}
	return nil
}

// Delete はセッションレコードの全項目を削除する。
func (r *StorageSessionRepo) Delete(ctx context.Context, clientID string) error {
	if err := r.store.Remove(ctx, clientID, KeyLoggedIn, KeyUsername, KeyLoginTime); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SessionRepository = (*StorageSessionRepo)(nil)
