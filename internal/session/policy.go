// Package session はセッションレコードの有効性判定とセッションゲートを提供する。
//
// 有効性の判定はPolicyに一本化し、ログイン画面（Gate）と注文画面（ledger）の
// 両方から同じ判定を使う。
package session

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/SorynSolutions/soryn-order-tracker/internal/metrics"
	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
	"github.com/SorynSolutions/soryn-order-tracker/internal/repository"
)

// DefaultValidity はセッションの既定の有効期間。
const DefaultValidity = 24 * time.Hour

// Status はセッションレコードの判定結果を表す。
type Status int

const (
	// StatusAbsent はセッションレコードが存在しないことを示す。
	StatusAbsent Status = iota
	// StatusValid は有効なセッションであることを示す。
	StatusValid
	// StatusExpired は期限切れまたは不正なレコードであり、破棄済みであることを示す。
	StatusExpired
)

// String はログ出力用の文字列表現を返す。
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "absent"
	}
}

// IsValid はセッションが有効かどうかを判定する。
// loggedInがtrueかつ (now - loginTime) < validity の場合のみ有効。
// 比較はミリ秒単位で行う。
func IsValid(s *model.Session, now time.Time, validity time.Duration) bool {
	if s == nil || !s.LoggedIn || s.LoginTime.IsZero() {
		return false
	}
	elapsed := now.UnixMilli() - s.LoginTime.UnixMilli()
	return elapsed < validity.Milliseconds()
}

// lockStripes はクライアント単位の排他に使うロック数。
const lockStripes = 64

// Policy はセッションレコードの発行・検証・破棄を行う。
// 同一クライアントに対する判定→破棄と発行は直列化される。
type Policy struct {
	repo     repository.SessionRepository
	validity time.Duration
	metrics  metrics.Recorder
	now      func() time.Time

	locks [lockStripes]sync.Mutex
}

// NewPolicy はPolicyを生成する。validityが0以下の場合はDefaultValidityを使う。
func NewPolicy(repo repository.SessionRepository, validity time.Duration, recorder metrics.Recorder) *Policy {
	if validity <= 0 {
		validity = DefaultValidity
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Policy{
		repo:     repo,
		validity: validity,
		metrics:  recorder,
		now:      time.Now,
	}
}

// Validity はセッションの有効期間を返す。
func (p *Policy) Validity() time.Duration {
	return p.validity
}

// Check はクライアントのセッションレコードを判定する。
// 期限切れ（または不正な形式）の場合はレコードを破棄してStatusExpiredを返す。
func (p *Policy) Check(ctx context.Context, clientID string) (Status, *model.Session, error) {
	unlock := p.lock(clientID)
	defer unlock()

	s, err := p.repo.Find(ctx, clientID)
	if err != nil {
		return StatusAbsent, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil {
		return StatusAbsent, nil, nil
	}

	if IsValid(s, p.now(), p.validity) {
		return StatusValid, s, nil
	}

	if err := p.repo.Delete(ctx, clientID); err != nil {
		return StatusExpired, nil, fmt.Errorf("failed to purge expired session: %w", err)
	}
	p.metrics.RecordSessionExpired()
	slog.Info("expired session purged",
		slog.String("client_id", clientID),
		slog.String("username", s.Username),
	)

	return StatusExpired, nil, nil
}

// Issue は現在時刻で新しいセッションレコードを発行し保存する。
func (p *Policy) Issue(ctx context.Context, clientID, username string) (*model.Session, error) {
	unlock := p.lock(clientID)
	defer unlock()

	s := &model.Session{
		LoggedIn:  true,
		Username:  username,
		LoginTime: p.now(),
	}
	if err := p.repo.Save(ctx, clientID, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// Purge はセッションレコードを無条件に破棄する。
func (p *Policy) Purge(ctx context.Context, clientID string) error {
	unlock := p.lock(clientID)
	defer unlock()

	if err := p.repo.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// lock はクライアント単位でセッションレコードの読み書きを直列化する。
func (p *Policy) lock(clientID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	mu := &p.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
