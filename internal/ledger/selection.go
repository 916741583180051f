package ledger

import "github.com/SorynSolutions/soryn-order-tracker/internal/model"

// 数量欄のラベル。
const (
	QuantityLabelBotLobbies = "Number of Bot Lobbies"
	QuantityLabelAccounts   = "Number of Accounts"
)

// サービス種別の変更時に値をクリアするフォーム項目。
var clearedOnChange = []string{"activisionId", "quantity"}

// Selection はサービス種別の排他的な選択状態を表す。
// フォーム上は複数選択のチェックボックスだが、同時に有効なタグは最大1つ。
type Selection struct {
	active model.ServiceType
}

// NewSelection は指定のタグを順に選択した状態を返す。後に指定したタグが優先される。
func NewSelection(types ...model.ServiceType) Selection {
	var s Selection
	for _, t := range types {
		s.Select(t)
	}
	return s
}

// DefaultSelection はフォームリセット直後の選択状態（Bot Lobbies）を返す。
func DefaultSelection() Selection {
	return Selection{active: model.ServiceTypeBotLobbies}
}

// Select はtを唯一の有効なタグにする。
func (s *Selection) Select(t model.ServiceType) {
	s.active = t
}

// Deselect はtが有効な場合に選択を解除する。
func (s *Selection) Deselect(t model.ServiceType) {
	if s.active == t {
		s.active = ""
	}
}

// Toggle はチェックボックスの変更イベントを適用する。
func (s *Selection) Toggle(t model.ServiceType, checked bool) {
	if checked {
		s.Select(t)
		return
	}
	s.Deselect(t)
}

// Active は有効なタグを0または1要素のスライスで返す。
func (s Selection) Active() []model.ServiceType {
	if s.active == "" {
		return []model.ServiceType{}
	}
	return []model.ServiceType{s.active}
}

// Has はtが有効かどうかを返す。
func (s Selection) Has(t model.ServiceType) bool {
	return s.active != "" && s.active == t
}

// FieldPolicyFor は選択中のサービス種別からフォーム項目のルールを導出する。
// Lobby Toolを含む場合はActivision IDを隠して任意にし、数量をアカウント数として扱う。
func FieldPolicyFor(selected []model.ServiceType) model.FieldPolicy {
	lobbyTool := false
	for _, t := range selected {
		if t == model.ServiceTypeLobbyTool {
			lobbyTool = true
			break
		}
	}

	cleared := make([]string, len(clearedOnChange))
	copy(cleared, clearedOnChange)

	if lobbyTool {
		return model.FieldPolicy{
			ShowActivisionID:    false,
			RequireActivisionID: false,
			QuantityLabel:       QuantityLabelAccounts,
			ClearedFields:       cleared,
		}
	}
	return model.FieldPolicy{
		ShowActivisionID:    true,
		RequireActivisionID: true,
		QuantityLabel:       QuantityLabelBotLobbies,
		ClearedFields:       cleared,
	}
}

// OnServiceTypeChanged はチェックボックスの変更を選択状態に適用し、
// 新しい選択状態に対するフォーム項目のルールを返す。
func OnServiceTypeChanged(sel *Selection, t model.ServiceType, checked bool) model.FieldPolicy {
	sel.Toggle(t, checked)
	return FieldPolicyFor(sel.Active())
}
