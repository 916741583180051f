package ledger

import (
	"fmt"

	"github.com/SorynSolutions/soryn-order-tracker/internal/model"
)

// 画面に表示するメッセージ。
const (
	EmptyOrdersMessage  = "No orders yet. Add your first order above!"
	OrderAddedMessage   = "Order added successfully!"
	OrderDeletedMessage = "Order deleted successfully!"
)

// OrderView は注文一覧の1行分の表示用モデル。
type OrderView struct {
	ID            int64    `json:"id"`
	Customer      string   `json:"customer"`
	Date          string   `json:"date"`
	ActivisionID  string   `json:"activisionId,omitempty"`
	QuantityLabel string   `json:"quantityLabel"`
	Quantity      int      `json:"quantity"`
	MoneySpent    string   `json:"moneySpent"`
	Profit        string   `json:"profit"`
	ServiceBadges []string `json:"serviceBadges"`
}

// SummaryView は集計欄の表示用モデル。
type SummaryView struct {
	TotalProfit    string `json:"totalProfit"`
	TotalQuantity  int    `json:"totalQuantity"`
	TotalCustomers int    `json:"totalCustomers"`
}

// FormatMoney は金額を "$12.50" 形式に整形する。
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// NewOrderView は注文から表示用モデルを生成する。
func NewOrderView(o model.Order) OrderView {
	label := "Lobbies"
	if o.HasServiceType(model.ServiceTypeLobbyTool) {
		label = "Accounts"
	}

	badges := make([]string, 0, len(o.ServiceTypes))
	for _, t := range o.ServiceTypes {
		badges = append(badges, t.Label())
	}

	return OrderView{
		ID:            o.ID,
		Customer:      o.DiscordUsername,
		Date:          o.Date,
		ActivisionID:  o.ActivisionID,
		QuantityLabel: label,
		Quantity:      o.Quantity,
		MoneySpent:    FormatMoney(o.MoneySpent),
		Profit:        FormatMoney(o.Profit),
		ServiceBadges: badges,
	}
}

// NewOrderViews は注文一覧の順序を保ったまま表示用モデルに変換する。
func NewOrderViews(orders []model.Order) []OrderView {
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = NewOrderView(o)
	}
	return views
}

// NewSummaryView は集計値から表示用モデルを生成する。
func NewSummaryView(s model.Summary) SummaryView {
	return SummaryView{
		TotalProfit:    FormatMoney(s.TotalProfit),
		TotalQuantity:  s.TotalQuantity,
		TotalCustomers: s.UniqueCustomerCount,
	}
}
