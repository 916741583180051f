// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（ユーザーにそのまま表示する）
	Category string // カテゴリ: auth, validation, order, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeNoServiceType          = "NO_SERVICE_TYPE"
	ErrCodeMissingActivisionID    = "MISSING_ACTIVISION_ID"
	ErrCodeMissingDiscordUsername = "MISSING_DISCORD_USERNAME"
	ErrCodeInvalidAmount          = "INVALID_AMOUNT"
	ErrCodeInvalidServiceType     = "INVALID_SERVICE_TYPE"
	ErrCodeOrderNotFound          = "ORDER_NOT_FOUND"
	ErrCodeConfirmationRequired   = "CONFIRMATION_REQUIRED"
	ErrCodeInvalidRequest         = "INVALID_REQUEST"
	ErrCodeRateLimited            = "RATE_LIMIT_EXCEEDED"
	ErrCodeCSRFTokenInvalid       = "CSRF_TOKEN_INVALID"
	ErrCodeInternal               = "INTERNAL_ERROR"
)

// ErrDecode は永続化されたデータのデコードに失敗したことを示す。
// リポジトリ層はこのエラーをラップして返す。
var ErrDecode = errors.New("stored value could not be decoded")

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー不在とパスワード不一致を区別しない（ユーザー列挙対策）。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid username or password. Please try again.",
		Category: "auth",
		Action:   "Check your username and password and try again.",
	}
}

// NewUnauthorizedError はセッションが無効な場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Your session has expired. Please log in again.",
		Category: "auth",
		Action:   "Log in to continue.",
	}
}

// NewNoServiceTypeError はサービス種別が未選択の場合のエラーを生成する。
func NewNoServiceTypeError() *APIError {
	return &APIError{
		Code:     ErrCodeNoServiceType,
		Message:  "Please select at least one service type.",
		Category: "validation",
		Action:   "Select Bot Lobbies, Lobby Tool or Other.",
	}
}

// NewMissingActivisionIDError はActivision IDが必須なのに空の場合のエラーを生成する。
func NewMissingActivisionIDError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingActivisionID,
		Message:  "Activision ID is required for this service type.",
		Category: "validation",
		Action:   "Enter the customer's Activision ID or select Lobby Tool.",
	}
}

// NewMissingDiscordUsernameError はDiscordユーザー名が空の場合のエラーを生成する。
func NewMissingDiscordUsernameError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingDiscordUsername,
		Message:  "Discord username is required.",
		Category: "validation",
		Action:   "Enter the customer's Discord username.",
	}
}

// NewInvalidAmountError は数量・金額が負の場合のエラーを生成する。
func NewInvalidAmountError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAmount,
		Message:  fmt.Sprintf("%s must not be negative.", field),
		Category: "validation",
		Action:   "Enter zero or a positive number.",
	}
}

// NewInvalidServiceTypeError は未知のサービス種別が指定された場合のエラーを生成する。
func NewInvalidServiceTypeError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidServiceType,
		Message:  fmt.Sprintf("Unknown service type: %s", value),
		Category: "validation",
		Action:   "Use botLobbies, lobbyTool or other.",
	}
}

// NewOrderNotFoundError は注文未検出エラーを生成する。
func NewOrderNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("Order not found: %d", id),
		Category: "order",
		Action:   "Reload the order list and try again.",
	}
}

// NewConfirmationRequiredError は削除確認が行われていない場合のエラーを生成する。
func NewConfirmationRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeConfirmationRequired,
		Message:  "Are you sure you want to delete this order?",
		Category: "order",
		Action:   "Confirm the deletion to continue.",
	}
}

// NewInvalidRequestError はリクエストボディやパラメータが不正な場合のエラーを生成する。
func NewInvalidRequestError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("Invalid request: %s", detail),
		Category: "validation",
		Action:   "Check the request and try again.",
	}
}

// NewRateLimitError はレート制限超過エラーを生成する。
func NewRateLimitError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Wait for the time given in Retry-After and try again.",
	}
}

// NewCSRFTokenInvalidError はCSRFトークンの検証失敗エラーを生成する。
func NewCSRFTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeCSRFTokenInvalid,
		Message:  "Your form has expired. Please reload the page.",
		Category: "auth",
		Action:   "Reload the page and submit again.",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログにのみ記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Something went wrong on our side.",
		Category: "system",
		Action:   "Wait a moment and try again.",
	}
}

// HasCode はerrがcodeを持つAPIErrorかどうかを返す。
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
