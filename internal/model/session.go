// Package model はドメインモデルを定義する。
package model

import "time"

// Session はクライアントのログインセッションを表す。
// 発行時刻と固定の有効期間で有効性を判定する。
type Session struct {
	LoggedIn  bool
	Username  string
	LoginTime time.Time
}

// LoginInput はログインフォームの入力値を表す。
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Navigation は呼び出し側に要求する画面遷移を表す。
// コアは遷移を実行せず、遷移先を返すだけ。
type Navigation string

const (
	// NavigateMain は注文画面への遷移を示す。
	NavigateMain Navigation = "main"
	// NavigateLogin はログイン画面への遷移を示す。
	NavigateLogin Navigation = "login"
	// NavigateStay は現在の画面に留まることを示す。
	NavigateStay Navigation = "stay"
)
