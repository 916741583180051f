package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。Navigateはクライアントに画面遷移を指示する場合のみ設定する。
type ErrorResponseBody struct {
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Category string           `json:"category"`
	Action   string           `json:"action"`
	Navigate model.Navigation `json:"navigate,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeErrorBody(w, statusCode, apiErr, "")
}

// WriteErrorResponseWithNavigation は遷移先を含むエラーレスポンスを書き込む。
func WriteErrorResponseWithNavigation(w http.ResponseWriter, statusCode int, apiErr *model.APIError, nav model.Navigation) {
	writeErrorBody(w, statusCode, apiErr, nav)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

func writeErrorBody(w http.ResponseWriter, statusCode int, apiErr *model.APIError, nav model.Navigation) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
		Navigate: nav,
	})
	if err != nil {
		slog.Error("failed to write error response", slog.String("error", err.Error()))
	}
}
