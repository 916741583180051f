package ledger

import (
	"math"
	"strconv"
	"strings"
)

// parseQuantity はフォームの数量欄を整数として解釈する。
// 先頭の空白を除き、符号と数字が続く部分だけを読む（"12abc"は12、"2.9"は2、"1e3"は1）。
// "0x"で始まる場合は16進数として読む。
// 数字が1つもない値やint32に収まらない値は0とする。
func parseQuantity(raw string) int {
	s := strings.TrimLeft(raw, " \t\n\r\f\v")
	sign, s := cutSign(s)

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.ParseInt(sign+s[:end], base, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

// parseAmount はフォームの金額欄を小数として解釈する。
// 先頭の空白を除き、符号・整数部・小数部・指数部が続く部分だけを読む
// （"3.50$"は3.5、"1,5"は1、".5"は0.5）。
// 数字が1つもない値、NaN、無限大は0とする。
func parseAmount(raw string) float64 {
	s := strings.TrimLeft(raw, " \t\n\r\f\v")
	sign, s := cutSign(s)

	end := scanDigits(s, 0)
	digits := end
	if end < len(s) && s[end] == '.' {
		frac := scanDigits(s, end+1)
		digits += frac - end - 1
		end = frac
	}
	if digits == 0 {
		return 0
	}

	// 指数部は後ろに数字がある場合のみ読む
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if expEnd := scanDigits(s, exp); expEnd > exp {
			end = expEnd
		}
	}

	f, err := strconv.ParseFloat(sign+s[:end], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// cutSign は先頭の符号を取り出す。"+"は空文字列として返す。
func cutSign(s string) (string, string) {
	if s == "" {
		return "", s
	}
	switch s[0] {
	case '-':
		return "-", s[1:]
	case '+':
		return "", s[1:]
	}
	return "", s
}

// scanDigits はs[start:]から連続する10進数字の終端位置を返す。
func scanDigits(s string, start int) int {
	i := start
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'):
		return true
	}
	return false
}
