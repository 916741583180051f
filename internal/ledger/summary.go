package ledger

import "github.com/SorynSolutions/soryn-order-tracker/internal/model"

// ComputeSummary は注文一覧から集計値を導出する。
// 顧客数はDiscordユーザー名の完全一致で重複を除いた件数。
func ComputeSummary(orders []model.Order) model.Summary {
	var s model.Summary
	customers := make(map[string]struct{}, len(orders))

	for _, o := range orders {
		s.TotalProfit += o.Profit
		s.TotalQuantity += o.Quantity
		customers[o.DiscordUsername] = struct{}{}
	}
	s.UniqueCustomerCount = len(customers)

	return s
}
