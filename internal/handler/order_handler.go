package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SorynSolutions/soryn-order-tracker/internal/ledger"
	"github.com/SorynSolutions/soryn-order-tracker/internal/middleware"
	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// LedgerServiceInterface は注文ハンドラーが必要とするサービスインターフェース。
// ledger.Serviceが実装する。
type LedgerServiceInterface interface {
	ListOrders(ctx context.Context, clientID string) ([]model.Order, error)
	SubmitOrder(ctx context.Context, clientID string, input model.OrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, clientID string, id int64) error
	Summary(ctx context.Context, clientID string) (model.Summary, error)
}

// OrderHandler は注文画面のHTTPハンドラー。
type OrderHandler struct {
	service LedgerServiceInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service LedgerServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// orderListResponse は注文一覧のAPIレスポンス。
type orderListResponse struct {
	Username     string              `json:"username,omitempty"`
	Orders       []ledger.OrderView  `json:"orders"`
	Summary      ledger.SummaryView  `json:"summary"`
	EmptyMessage string              `json:"emptyMessage,omitempty"`
	FieldPolicy  fieldPolicyResponse `json:"fieldPolicy"`
}

// orderMutationResponse は注文の登録・削除のAPIレスポンス。
type orderMutationResponse struct {
	Message string             `json:"message"`
	Order   *ledger.OrderView  `json:"order,omitempty"`
	Summary ledger.SummaryView `json:"summary"`
}

// fieldPolicyRequest はサービス種別チェックボックスの変更イベント。
type fieldPolicyRequest struct {
	Selected []model.ServiceType `json:"selected"`
	Changed  model.ServiceType   `json:"changed"`
	Checked  bool                `json:"checked"`
}

// fieldPolicyResponse はフォーム項目のルールと変更後の選択状態。
type fieldPolicyResponse struct {
	Selected            []model.ServiceType `json:"selected"`
	ShowActivisionID    bool                `json:"showActivisionId"`
	RequireActivisionID bool                `json:"requireActivisionId"`
	QuantityLabel       string              `json:"quantityLabel"`
	ClearedFields       []string            `json:"clearedFields"`
}

func toFieldPolicyResponse(sel ledger.Selection, p model.FieldPolicy) fieldPolicyResponse {
	return fieldPolicyResponse{
		Selected:            sel.Active(),
		ShowActivisionID:    p.ShowActivisionID,
		RequireActivisionID: p.RequireActivisionID,
		QuantityLabel:       p.QuantityLabel,
		ClearedFields:       p.ClearedFields,
	}
}

// ListOrders は注文一覧と集計値を返す。
// GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDOrAbort(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListOrders(r.Context(), clientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sel := ledger.DefaultSelection()
	resp := orderListResponse{
		Orders:      ledger.NewOrderViews(orders),
		Summary:     ledger.NewSummaryView(ledger.ComputeSummary(orders)),
		FieldPolicy: toFieldPolicyResponse(sel, ledger.FieldPolicyFor(sel.Active())),
	}
	if username, ok := middleware.UsernameFromContext(r.Context()); ok {
		resp.Username = username
	}
	if len(orders) == 0 {
		resp.EmptyMessage = ledger.EmptyOrdersMessage
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateOrder はフォーム入力から注文を登録する。
// POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDOrAbort(w, r)
	if !ok {
		return
	}

	var input model.OrderInput
	if !decodeJSON(w, r, &input) {
		return
	}

	order, err := h.service.SubmitOrder(r.Context(), clientID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), clientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view := ledger.NewOrderView(*order)
	writeJSON(w, http.StatusCreated, orderMutationResponse{
		Message: ledger.OrderAddedMessage,
		Order:   &view,
		Summary: ledger.NewSummaryView(summary),
	})
}

// DeleteOrder は注文を1件削除する。
// DELETE /api/orders/{id}?confirm=true
// confirm=trueが無い場合は削除せずCONFIRMATION_REQUIREDを返す。
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDOrAbort(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handleServiceError(w, model.NewInvalidRequestError("order id must be an integer"))
		return
	}

	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		handleServiceError(w, model.NewConfirmationRequiredError())
		return
	}

	if err := h.service.DeleteOrder(r.Context(), clientID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), clientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orderMutationResponse{
		Message: ledger.OrderDeletedMessage,
		Summary: ledger.NewSummaryView(summary),
	})
}

// GetSummary は集計値を返す。
// GET /api/orders/summary
func (h *OrderHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	clientID, ok := clientIDOrAbort(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), clientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ledger.NewSummaryView(summary))
}

// FieldPolicy はサービス種別の変更を選択状態に適用し、フォーム項目のルールを返す。
// 選択状態はクライアント側が保持するため、保存は行わない。
// POST /api/orders/field-policy
func (h *OrderHandler) FieldPolicy(w http.ResponseWriter, r *http.Request) {
	var req fieldPolicyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for _, t := range append(append([]model.ServiceType{}, req.Selected...), req.Changed) {
		if !t.Valid() {
			handleServiceError(w, model.NewInvalidServiceTypeError(string(t)))
			return
		}
	}

	sel := ledger.NewSelection(req.Selected...)
	policy := ledger.OnServiceTypeChanged(&sel, req.Changed, req.Checked)

	writeJSON(w, http.StatusOK, toFieldPolicyResponse(sel, policy))
}
