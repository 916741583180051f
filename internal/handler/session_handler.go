package handler

import (
	"context"
	"net/http"

	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
	"github.com/SorynSolutions/soryn-order-tracker/internal/session"
)

// GateServiceInterface はセッションハンドラーが必要とするサービスインターフェース。
// session.Gateが実装する。
type GateServiceInterface interface {
	CheckExistingSession(ctx context.Context, clientID string) (model.Navigation, error)
	AttemptLogin(ctx context.Context, clientID, username, password string) (*model.Session, error)
	Logout(ctx context.Context, clientID string) error
}

// SessionHandler はログイン画面のHTTPハンドラー。
type SessionHandler struct {
	gate GateServiceInterface
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(gate GateServiceInterface) *SessionHandler {
	return &SessionHandler{gate: gate}
}

// sessionResponse はセッション操作のAPIレスポンス。
type sessionResponse struct {
	Navigate model.Navigation `json:"navigate"`
	Message  string           `json:"message,omitempty"`
	Username string           `json:"username,omitempty"`
}

// CheckSession は既存セッションを確認し、遷移先を返す。
// GET /api/session
func (h *SessionHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDOrAbort(w, r)
	if !ok {
		return
	}

	nav, err := h.gate.CheckExistingSession(r.Context(), clientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Navigate: nav})
}

// Login は資格情報を検証し、成功した場合はセッションを発行する。
// POST /api/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDOrAbort(w, r)
	if !ok {
		return
	}

	var req model.LoginInput
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.gate.AttemptLogin(r.Context(), clientID, req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Navigate: model.NavigateMain,
		Message:  session.LoginSuccessMessage,
		Username: s.Username,
	})
}

// Logout はセッションを破棄する。
// POST /api/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDOrAbort(w, r)
	if !ok {
		return
	}

	if err := h.gate.Logout(r.Context(), clientID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Navigate: model.NavigateLogin,
		Message:  session.LogoutMessage,
	})
}
