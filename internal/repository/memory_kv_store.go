package repository

import (
	"context"
	"sync"
)

// MemoryKVStore はプロセス内メモリを使用したキー/値ストレージ。
// DATABASE_URL未設定時のバックエンド、およびテスト用の代替実装として使う。
type MemoryKVStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryKVStore はMemoryKVStoreを生成する。
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{
		data: make(map[string]map[string]string),
	}
}

// Get は値を取得する。キーが存在しない場合はokにfalseを返す。
func (s *MemoryKVStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.data[namespace]
	if !ok {
		return "", false, nil
	}
	value, ok := ns[key]
	return value, ok, nil
}

// Set は値を保存する。既存の値は上書きする。
func (s *MemoryKVStore) Set(ctx context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]string)
		s.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

// Remove は指定キーを削除する。名前空間が空になった場合は名前空間ごと破棄する。
func (s *MemoryKVStore) Remove(ctx context.Context, namespace string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(ns, key)
	}
	if len(ns) == 0 {
		delete(s.data, namespace)
	}
	return nil
}

// Namespaces は現在データを持つ名前空間の一覧を返す。
func (s *MemoryKVStore) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.data))
	for ns := range s.data {
		out = append(out, ns)
	}
	return out
}

// compile-time interface check
var _ KeyValueStore = (*MemoryKVStore)(nil)
