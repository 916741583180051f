// Package model はドメインモデルを定義する。
package model

// ServiceType は注文のサービス種別タグを表す。
// フォーム上は複数選択のチェックボックスだが、同時に有効なのは1つだけ。
type ServiceType string

const (
	// ServiceTypeBotLobbies はボットロビー販売。数量はロビー数を表す。
	ServiceTypeBotLobbies ServiceType = "botLobbies"
	// ServiceTypeLobbyTool はロビーツール販売。数量はアカウント数を表し、Activision IDは不要。
	ServiceTypeLobbyTool ServiceType = "lobbyTool"
	// ServiceTypeOther はその他のサービス。
	ServiceTypeOther ServiceType = "other"
)

// ServiceTypes は定義済みのサービス種別を表示順に返す。
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceTypeBotLobbies, ServiceTypeLobbyTool, ServiceTypeOther}
}

// Valid は定義済みのサービス種別かどうかを返す。
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceTypeBotLobbies, ServiceTypeLobbyTool, ServiceTypeOther:
		return true
	default:
		return false
	}
}

// Label は表示用ラベルを返す。
func (t ServiceType) Label() string {
	switch t {
	case ServiceTypeBotLobbies:
		return "Bot Lobbies"
	case ServiceTypeLobbyTool:
		return "Lobby Tool"
	case ServiceTypeOther:
		return "Other"
	default:
		return string(t)
	}
}

// Order は1件の顧客取引を表す。
// JSONタグは保存済みデータとの互換のため変更しないこと。
type Order struct {
	ID              int64         `json:"id"`
	DiscordUsername string        `json:"discordUsername"`
	ActivisionID    string        `json:"activisionId"`
	ServiceTypes    []ServiceType `json:"serviceTypes"`
	Quantity        int           `json:"quantity"`
	MoneySpent      float64       `json:"moneySpent"`
	Profit          float64       `json:"profit"`
	Date            string        `json:"date"` // 表示専用。ソートや判定には使わない
}

// HasServiceType は注文が指定のサービス種別を含むかどうかを返す。
func (o *Order) HasServiceType(t ServiceType) bool {
	for _, st := range o.ServiceTypes {
		if st == t {
			return true
		}
	}
	return false
}

// OrderInput は注文フォームの入力値を表す。
// 数値項目はフォームの生文字列のまま受け取り、サービス層で解釈する。
type OrderInput struct {
	DiscordUsername string        `json:"discordUsername"`
	ActivisionID    string        `json:"activisionId"`
	ServiceTypes    []ServiceType `json:"serviceTypes"`
	Quantity        string        `json:"quantity"`
	MoneySpent      string        `json:"moneySpent"`
	Profit          string        `json:"profit"`
}

// Summary は注文一覧から導出される集計値。保存はしない。
type Summary struct {
	TotalProfit         float64
	TotalQuantity       int
	UniqueCustomerCount int
}

// FieldPolicy はサービス種別の選択に応じたフォーム項目の表示・必須ルール。
// 選択状態から毎回導出し、保存しない。
type FieldPolicy struct {
	ShowActivisionID    bool
	RequireActivisionID bool
	QuantityLabel       string
	ClearedFields       []string // 選択変更時に値をクリアする項目
}
