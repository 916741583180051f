package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// StorageOrderRepo はKeyValueStore上に注文一覧をJSON配列として保存するリポジトリ。
type StorageOrderRepo struct {
	store KeyValueStore
}

// NewStorageOrderRepo はStorageOrderRepoを生成する。
func NewStorageOrderRepo(store KeyValueStore) *StorageOrderRepo {
	return &StorageOrderRepo{store: store}
}

// Load は注文一覧を取得する。保存データがない場合は空スライスを返す。
func (r *StorageOrderRepo) Load(ctx context.Context, clientID string) ([]model.Order, error) {
	raw, ok, err := r.store.Get(ctx, clientID, KeyOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	if !ok || raw == "" {
		return []model.Order{}, nil
	}

	var orders []model.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w: %v", model.ErrDecode, err)
	}
	if orders == nil {
		orders = []model.Order{}
	}

	return orders, nil
}

// SaveAll は注文一覧全体を上書き保存する。
func (r *StorageOrderRepo) SaveAll(ctx context.Context, clientID string, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}

	if err := r.store.Set(ctx, clientID, KeyOrders, string(data)); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	return nil
}

// compile-time interface check
var _ OrderRepository = (*StorageOrderRepo)(nil)
