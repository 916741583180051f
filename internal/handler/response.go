// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SorynSolutions/soryn-order-tracker/internal/middleware"
	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// maxBodyBytes はリクエストボディの上限サイズ。
const maxBodyBytes = 64 << 10

// writeJSON はステータスコードとJSONボディを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", slog.String("error", err.Error()))
	}
}

// decodeJSON はリクエストボディを単一のJSONオブジェクトとしてdstにデコードする。
// オブジェクト以外（null、配列など）や後続データがある場合も失敗とする。
// 失敗した場合はINVALID_REQUESTレスポンスを書き込みfalseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := decodeSingleObject(r.Body, dst); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("body must be a single JSON object"))
		return false
	}
	return true
}

var errNotJSONObject = errors.New("body is not a JSON object")

// decodeSingleObject はrから1つのJSONオブジェクトを読み、dstにデコードする。
func decodeSingleObject(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if !bytes.HasPrefix(bytes.TrimLeft(raw, " \t\r\n"), []byte("{")) {
		return errNotJSONObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON object")
	}

	return json.Unmarshal(raw, dst)
}

// clientIDOrAbort はコンテキストからクライアントIDを取り出す。
// 取り出せない場合は401を書き込みfalseを返す。
func clientIDOrAbort(w http.ResponseWriter, r *http.Request) (string, bool) {
	clientID, err := middleware.ClientIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponseWithNavigation(w, http.StatusUnauthorized, model.NewUnauthorizedError(), model.NavigateLogin)
		return "", false
	}
	return clientID, true
}

// handleServiceError はサービス層のエラーを適切なHTTPレスポンスに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode == http.StatusUnauthorized && apiErr.Code == model.ErrCodeUnauthorized {
			middleware.WriteErrorResponseWithNavigation(w, statusCode, apiErr, model.NavigateLogin)
			return
		}
		middleware.WriteErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeNoServiceType,
		model.ErrCodeMissingActivisionID,
		model.ErrCodeMissingDiscordUsername,
		model.ErrCodeInvalidAmount,
		model.ErrCodeInvalidServiceType,
		model.ErrCodeConfirmationRequired,
		model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeCSRFTokenInvalid:
		return http.StatusForbidden
	case model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
