// Package auth は資格情報の検証を提供する。
//
// セッションゲートは Provider インターフェースにのみ依存し、
// 検証方式（bcryptハッシュ、平文テーブル等）を差し替え可能にする。
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Provider は資格情報を検証するインターフェース。
// ユーザー不在とパスワード不一致はどちらも(false, nil)を返し、区別しない。
type Provider interface {
	Validate(ctx context.Context, username, password string) (bool, error)
}

// BcryptProvider はユーザー名ごとのbcryptハッシュで検証するProvider。
type BcryptProvider struct {
	hashes map[string][]byte
}

// NewBcryptProvider はユーザー名→bcryptハッシュのテーブルからBcryptProviderを生成する。
// bcryptハッシュとして解釈できない値が含まれる場合はエラーを返す。
func NewBcryptProvider(hashes map[string]string) (*BcryptProvider, error) {
	p := &BcryptProvider{hashes: make(map[string][]byte, len(hashes))}
	for username, hash := range hashes {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid bcrypt hash for user %q: %w", username, err)
		}
		p.hashes[username] = []byte(hash)
	}
	return p, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// Validate はパスワードをbcryptハッシュと比較する。
// 未登録ユーザーでもダミーハッシュと比較し、応答時間からユーザーの存在を推測させない。
func (p *BcryptProvider) Validate(ctx context.Context, username, password string) (bool, error) {
	hash, ok := p.hashes[username]
	if !ok {
		dummyHashOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)
		})
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to compare password hash: %w", err)
	}
	return true, nil
}

// PlaintextProvider は平文パスワードのテーブルで検証するProvider。
// ブラウザ版に埋め込まれていた資格情報テーブルとの互換用であり、本番利用は推奨しない。
type PlaintextProvider struct {
	passwords map[string]string
}

// NewPlaintextProvider はユーザー名→平文パスワードのテーブルからPlaintextProviderを生成する。
func NewPlaintextProvider(passwords map[string]string) *PlaintextProvider {
	copied := make(map[string]string, len(passwords))
	for k, v := range passwords {
		copied[k] = v
	}
	return &PlaintextProvider{passwords: copied}
}

// Validate は大文字小文字を区別した完全一致で比較する。
func (p *PlaintextProvider) Validate(ctx context.Context, username, password string) (bool, error) {
	expected, ok := p.passwords[username]
	if !ok {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1, nil
}

// compile-time interface check
var (
	_ Provider = (*BcryptProvider)(nil)
	_ Provider = (*PlaintextProvider)(nil)
)
