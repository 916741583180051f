package security

import (
	"strings"
	"testing"
)

func TestTextSanitizer_Sanitize(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "gamer#1234", "gamer#1234"},
		{"空文字列", "", ""},
		{"前後の空白を除去", "  bob  ", "bob"},
		{"タグを除去して中身を残す", "<b>bob</b>", "bob"},
		{"アンパサンドは元の文字に戻す", "Tom & Jerry", "Tom & Jerry"},
		{"引用符は元の文字に戻す", `say "hi"`, `say "hi"`},
		{"imgタグのイベント属性ごと除去", `<img src=x onerror="alert(1)">carol`, "carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestTextSanitizer_RemovesScript はscript要素が中身ごと除去されることを検証する。
func TestTextSanitizer_RemovesScript(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.Sanitize(`<script>alert("x")</script>dave`)
	if strings.Contains(got, "script") || strings.Contains(got, "alert") {
		t.Errorf("script content should be removed, got %q", got)
	}
	if !strings.Contains(got, "dave") {
		t.Errorf("text after script should remain, got %q", got)
	}
}

// TestTextSanitizer_EncodedMarkupIsStripped はエンティティでエンコードされたタグも除去されることを検証する。
func TestTextSanitizer_EncodedMarkupIsStripped(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"エンコードされたimgタグ", "&lt;img src=x onerror=alert(1)&gt;mallory", "mallory"},
		{"二重エンコードされたscriptタグ", "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;trent", "trent"},
		{"数値参照のタグ", "&#60;b&#62;oscar&#60;/b&#62;", "oscar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if strings.ContainsAny(got, "<>") {
				t.Errorf("Sanitize(%q) にタグが残っている: %q", tt.input, got)
			}
		})
	}
}

// TestTextSanitizer_Idempotent はサニタイズ済みの値を再度サニタイズしても変わらないことを検証する。
func TestTextSanitizer_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	inputs := []string{
		"<i>eve</i> & co",
		"&lt;img src=x onerror=alert(1)&gt;mallory",
		"&amp;lt;b&amp;gt;peggy",
		`say "hi"`,
		"a < b",
		"Tom &amp; Jerry",
		"  <p>  victor  </p>  ",
	}

	for _, input := range inputs {
		once := sanitizer.Sanitize(input)
		twice := sanitizer.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize(%q) = %q, but Sanitize of that = %q", input, once, twice)
		}
	}
}
