package ledger

import (
	"sync"
	"time"

	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// IDGenerator は注文IDを採番する。
// IDは作成時刻のミリ秒値を基本とし、同一ミリ秒内の連続作成や
// 既存IDとの衝突時は値を繰り上げて一意性を保証する。
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator はIDGeneratorを生成する。
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next は既存の注文と重複しない新しいIDを返す。
func (g *IDGenerator) Next(existing []model.Order) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}

	taken := make(map[int64]struct{}, len(existing))
	for _, o := range existing {
		taken[o.ID] = struct{}{}
	}
	for {
		if _, dup := taken[id]; !dup {
			break
		}
		id++
	}

	g.last = id
	return id
}
