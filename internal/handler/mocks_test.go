package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/SorynSolutions/soryn-order-tracker/internal/middleware"
	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// --- モック定義 ---

type mockGateService struct {
	checkFn  func(ctx context.Context, clientID string) (model.Navigation, error)
	loginFn  func(ctx context.Context, clientID, username, password string) (*model.Session, error)
	logoutFn func(ctx context.Context, clientID string) error
}

func (m *mockGateService) CheckExistingSession(ctx context.Context, clientID string) (model.Navigation, error) {
	if m.checkFn != nil {
		return m.checkFn(ctx, clientID)
	}
	return model.NavigateLogin, nil
}

func (m *mockGateService) AttemptLogin(ctx context.Context, clientID, username, password string) (*model.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, clientID, username, password)
	}
	return nil, model.NewInvalidCredentialsError()
}

func (m *mockGateService) Logout(ctx context.Context, clientID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, clientID)
	}
	return nil
}

type mockLedgerService struct {
	listFn    func(ctx context.Context, clientID string) ([]model.Order, error)
	submitFn  func(ctx context.Context, clientID string, input model.OrderInput) (*model.Order, error)
	deleteFn  func(ctx context.Context, clientID string, id int64) error
	summaryFn func(ctx context.Context, clientID string) (model.Summary, error)
}

func (m *mockLedgerService) ListOrders(ctx context.Context, clientID string) ([]model.Order, error) {
	if m.listFn != nil {
		return m.listFn(ctx, clientID)
	}
	return []model.Order{}, nil
}

func (m *mockLedgerService) SubmitOrder(ctx context.Context, clientID string, input model.OrderInput) (*model.Order, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, clientID, input)
	}
	return &model.Order{}, nil
}

func (m *mockLedgerService) DeleteOrder(ctx context.Context, clientID string, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, clientID, id)
	}
	return nil
}

func (m *mockLedgerService) Summary(ctx context.Context, clientID string) (model.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx, clientID)
	}
	return model.Summary{}, nil
}

// newClientRequest はクライアントIDを注入したリクエストを生成する。
func newClientRequest(method, target, body, clientID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.ContextWithClientID(req.Context(), clientID))
}
