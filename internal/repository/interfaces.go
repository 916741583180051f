// Package repository はデータ永続化のインターフェースを定義する。
//
// すべての永続化は文字列キー/値のストレージポート（KeyValueStore）を経由する。
// ストレージはクライアントごとの名前空間で分離され、名前空間内のキー配置は
// ブラウザ版のlocalStorageと同一に保つ。
package repository

import (
	"context"

	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// 名前空間内で使用するストレージキー。
const (
	KeyLoggedIn  = "loggedIn"
	KeyUsername  = "username"
	KeyLoginTime = "loginTime"
	KeyOrders    = "orders"
)

// KeyValueStore は名前空間付きの文字列キー/値ストレージのインターフェース。
type KeyValueStore interface {
	// Get は値を取得する。キーが存在しない場合はokにfalseを返す。
	Get(ctx context.Context, namespace, key string) (value string, ok bool, err error)
	// Set は値を保存する。既存の値は上書きする。
	Set(ctx context.Context, namespace, key, value string) error
	// Remove は指定キーを削除する。存在しないキーは無視する。
	Remove(ctx context.Context, namespace string, keys ...string) error
}

// SessionRepository はセッションレコードの永続化インターフェース。
type SessionRepository interface {
	// Find はセッションレコードを取得する。レコードが存在しない場合はnilを返す。
	// loggedInが"true"でない場合はLoggedIn=false、loginTimeが整数でない場合は
	// ゼロ値のLoginTimeとして返し、有効性の判定は呼び出し側に委ねる。
	Find(ctx context.Context, clientID string) (*model.Session, error)
	// Save はセッションレコードを保存する。
	Save(ctx context.Context, clientID string, session *model.Session) error
	// Delete はセッションレコードの全項目を削除する。
	Delete(ctx context.Context, clientID string) error
}

// OrderRepository は注文一覧の永続化インターフェース。
// 一覧は常に丸ごと読み書きする（部分更新はしない）。
type OrderRepository interface {
	// Load は注文一覧を新しい順で取得する。保存データがない場合は空スライスを返す。
	// 保存データが壊れている場合はmodel.ErrDecodeをラップしたエラーを返す。
	Load(ctx context.Context, clientID string) ([]model.Order, error)
	// SaveAll は注文一覧全体を上書き保存する。
	SaveAll(ctx context.Context, clientID string, orders []model.Order) error
}
