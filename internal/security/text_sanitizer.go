// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は注文フォームの自由入力欄からHTMLを除去する。
// ブラウザ版は入力値をそのままinnerHTMLに埋め込んでいたため、
// 保存前にタグを取り除いてプレーンテキストとして扱う。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer は自由入力テキストのサニタイズ機能のインターフェース。
type Sanitizer interface {
	// Sanitize はHTMLタグを除去し、前後の空白を取り除いたプレーンテキストを返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// TextSanitizer はbluemondayのStrictPolicyでタグをすべて除去するSanitizer。
// script/style要素は中身ごと除去される。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// maxSanitizePasses はエンティティの多重エンコードを剥がす最大回数。
const maxSanitizePasses = 8

// Sanitize はタグを除去したプレーンテキストを返す。
// StrictPolicyはテキストをHTMLエスケープして返すため保存用にアンエスケープするが、
// アンエスケープでタグが現れる場合があるので、値が変わらなくなるまで繰り返す。
// 収束しない入力は空文字列とする。
func (s *TextSanitizer) Sanitize(raw string) string {
	current := raw
	for i := 0; i < maxSanitizePasses; i++ {
		if current == "" {
			return ""
		}
		next := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(current)))
		if next == current {
			return current
		}
		current = next
	}
	return ""
}

// compile-time interface check
var _ Sanitizer = (*TextSanitizer)(nil)
