package auth

import (
	"fmt"
	"strings"
)

// ParseCredentials は "user1:secret1,user2:secret2" 形式の文字列をテーブルに変換する。
// secretは最初の":"以降すべてで、bcryptハッシュ（"$2a$..."）もそのまま扱える。
// ユーザー名の前後の空白は除去するが、secretは空白も含めてそのまま保持する。
// 空文字列の場合は空のテーブルを返す。
func ParseCredentials(raw string) (map[string]string, error) {
	table := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return table, nil
	}

	for _, entry := range strings.Split(raw, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}

		username, secret, found := strings.Cut(entry, ":")
		username = strings.TrimSpace(username)
		if !found || username == "" || secret == "" {
			return nil, fmt.Errorf("malformed credential entry: expected user:secret")
		}
		if _, dup := table[username]; dup {
			return nil, fmt.Errorf("duplicate credential entry for user %q", username)
		}
		table[username] = secret
	}

	return table, nil
}
