package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SorynSolutions/soryn-order-tracker/internal/auth"
	"github.com/SorynSolutions/soryn-order-tracker/internal/metrics"
	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// ユーザー向けの状態メッセージ。
const (
	LoginSuccessMessage = "Login successful! Redirecting..."
	LogoutMessage       = "Logging out..."
)

// Gate はログイン画面のコントローラ。
// 資格情報の検証とセッションレコードの発行・破棄を行う。
type Gate struct {
	policy   *Policy
	provider auth.Provider
	metrics  metrics.Recorder
}

// NewGate はGateを生成する。
func NewGate(policy *Policy, provider auth.Provider, recorder metrics.Recorder) *Gate {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Gate{
		policy:   policy,
		provider: provider,
		metrics:  recorder,
	}
}

// CheckExistingSession は既存セッションを確認し、遷移先を返す。
// 有効なら注文画面へ、期限切れなら破棄したうえでログイン画面を要求する。
func (g *Gate) CheckExistingSession(ctx context.Context, clientID string) (model.Navigation, error) {
	status, _, err := g.policy.Check(ctx, clientID)
	if err != nil {
		return model.NavigateLogin, err
	}
	if status == StatusValid {
		return model.NavigateMain, nil
	}
	return model.NavigateLogin, nil
}

// AttemptLogin は資格情報を検証し、成功した場合はセッションを発行する。
// ユーザー名は前後の空白を除去し、パスワードはそのまま比較する。
// 失敗時はユーザー不在とパスワード不一致を区別しないエラーを返す。
func (g *Gate) AttemptLogin(ctx context.Context, clientID, username, password string) (*model.Session, error) {
	username = strings.TrimSpace(username)

	ok, err := g.provider.Validate(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to validate credentials: %w", err)
	}
	if !ok {
		g.metrics.RecordLogin(false)
		slog.Warn("login failed",
			slog.String("client_id", clientID),
		)
		return nil, model.NewInvalidCredentialsError()
	}

	s, err := g.policy.Issue(ctx, clientID, username)
	if err != nil {
		return nil, err
	}

	g.metrics.RecordLogin(true)
	slog.Info("user logged in",
		slog.String("client_id", clientID),
		slog.String("username", username),
	)

	return s, nil
}

// Logout はセッションレコードを無条件に破棄する。
// ログイン画面への遷移は呼び出し側が行う。
func (g *Gate) Logout(ctx context.Context, clientID string) error {
	if err := g.policy.Purge(ctx, clientID); err != nil {
		return err
	}
	slog.Info("user logged out", slog.String("client_id", clientID))
	return nil
}
