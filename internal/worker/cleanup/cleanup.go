// Package cleanup は期限切れセッションレコードの定期削除ジョブを提供する。
//
// セッションは参照時にも判定・破棄されるが、再訪しないクライアントのレコードは
// 残り続けるため、定期的にまとめて削除する。注文一覧は削除しない。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/SorynSolutions/soryn-order-tracker/internal/metrics"
	"github.com/SorynSolutions/soryn-order-tracker/internal/repository"
	"github.com/SorynSolutions/soryn-order-tracker/internal/session"
)

// Job は1回分のクリーンアップ処理。削除件数を返す。
type Job interface {
	Run(ctx context.Context) (int64, error)
}

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// sweepQuery はloginTimeが期限切れ、または整数でないセッションのキーを削除する。
// loginTimeの無いloggedInも不正なレコードとして削除する。
// $1は有効期限の境界（ミリ秒のUNIX時刻）。loginTime <= $1 が期限切れ。
//
// 各セッションの代表キー（loginTime、無ければloggedIn）だけを最上位のDELETEで削除し、
// 残りのキーはCTE内で削除する。RowsAffectedがセッション数と一致する。
const sweepQuery = `
WITH expired AS (
	SELECT namespace, 'loginTime'::text AS anchor FROM client_storage
	WHERE key = 'loginTime'
	  AND CASE
	        WHEN value ~ '^-?[0-9]{1,18}$' THEN value::bigint <= $1
	        ELSE TRUE
	      END
	UNION ALL
	SELECT s.namespace, 'loggedIn'::text AS anchor FROM client_storage s
	WHERE s.key = 'loggedIn'
	  AND NOT EXISTS (
	        SELECT 1 FROM client_storage t
	        WHERE t.namespace = s.namespace AND t.key = 'loginTime'
	      )
),
companions AS (
	DELETE FROM client_storage c
	USING expired e
	WHERE c.namespace = e.namespace
	  AND c.key IN ('loggedIn', 'username', 'loginTime')
	  AND c.key <> e.anchor
)
DELETE FROM client_storage c
USING expired e
WHERE c.namespace = e.namespace
  AND c.key = e.anchor`

// SQLSessionJob はPostgreSQLのclient_storageから期限切れセッションを一括削除するジョブ。
// 冪等: 削除対象がない場合でもエラーにならない。
type SQLSessionJob struct {
	db       Executor
	validity time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSQLSessionJob は新しいSQLSessionJobを生成する。
func NewSQLSessionJob(db Executor, validity time.Duration, logger *slog.Logger) *SQLSessionJob {
	if validity <= 0 {
		validity = session.DefaultValidity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLSessionJob{
		db:       db,
		validity: validity,
		logger:   logger,
		now:      time.Now,
	}
}

// Run は期限切れセッションのキーを削除し、削除したセッション数を返す。
func (j *SQLSessionJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UnixMilli() - j.validity.Milliseconds()

	result, err := j.db.ExecContext(ctx, sweepQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read swept session count: %w", err)
	}

	return deleted, nil
}

// NamespaceLister はストレージ内のクライアント名前空間を列挙する。
// repository.MemoryKVStoreが実装する。
type NamespaceLister interface {
	Namespaces() []string
}

// PolicySessionJob は名前空間ごとにsession.Policyで判定し、期限切れを破棄するジョブ。
// SQLを使えないメモリストレージで使用する。
type PolicySessionJob struct {
	lister NamespaceLister
	policy *session.Policy
}

// NewPolicySessionJob は新しいPolicySessionJobを生成する。
func NewPolicySessionJob(lister NamespaceLister, policy *session.Policy) *PolicySessionJob {
	return &PolicySessionJob{lister: lister, policy: policy}
}

// Run は全名前空間のセッションを判定し、破棄した件数を返す。
func (j *PolicySessionJob) Run(ctx context.Context) (int64, error) {
	var purged int64
	for _, ns := range j.lister.Namespaces() {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		status, _, err := j.policy.Check(ctx, ns)
		if err != nil {
			return purged, fmt.Errorf("failed to check session for %s: %w", ns, err)
		}
		if status == session.StatusExpired {
			purged++
		}
	}
	return purged, nil
}

// Runner はJobを一定間隔で実行する。
type Runner struct {
	job      Job
	interval time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewRunner は新しいRunnerを生成する。
func NewRunner(job Job, interval time.Duration, recorder metrics.Recorder, logger *slog.Logger) *Runner {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		job:      job,
		interval: interval,
		metrics:  recorder,
		logger:   logger,
	}
}

// RunOnce はジョブを1回実行し、結果をログとメトリクスに記録する。
func (r *Runner) RunOnce(ctx context.Context) error {
	start := time.Now()

	deleted, err := r.job.Run(ctx)
	if err != nil {
		r.logger.Error("session cleanup failed", slog.String("error", err.Error()))
		return err
	}

	r.metrics.RecordSessionsSwept(int(deleted))
	r.logger.Info("session cleanup completed",
		slog.Int64("deleted_count", deleted),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return nil
}

// Start は起動直後に1回実行し、以降はintervalごとに実行する。
// ctxがキャンセルされるまでブロックする。intervalが0以下の場合は何もしない。
func (r *Runner) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	_ = r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.RunOnce(ctx)
		}
	}
}

// compile-time interface check
var (
	_ Job             = (*SQLSessionJob)(nil)
	_ Job             = (*PolicySessionJob)(nil)
	_ NamespaceLister = (*repository.MemoryKVStore)(nil)
)
