package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// SessionValidator はセッションの有効性判定に必要なインターフェース。
// ledger.Serviceが実装する。
type SessionValidator interface {
	ValidateSession(ctx context.Context, clientID string) (model.Navigation, *model.Session, error)
}

// NewSessionMiddleware はクライアントのセッションレコードを検証するミドルウェアを返す。
// 有効なセッションの場合はユーザー名をコンテキストに注入する。
// 無効なセッションには401とログイン画面への遷移指示を返す。
// クライアントIDミドルウェアの後に配置すること。
func NewSessionMiddleware(validator SessionValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, err := ClientIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponseWithNavigation(w, http.StatusUnauthorized, model.NewUnauthorizedError(), model.NavigateLogin)
				return
			}

			nav, sess, err := validator.ValidateSession(r.Context(), clientID)
			if err != nil {
				slog.Error("failed to validate session",
					slog.String("client_id", clientID),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if nav != model.NavigateStay || sess == nil {
				WriteErrorResponseWithNavigation(w, http.StatusUnauthorized, model.NewUnauthorizedError(), model.NavigateLogin)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUsername(r.Context(), sess.Username)))
		})
	}
}
