// Package security はアプリケーションのセキュリティ機能を提供する。
//
// EmailSanitizerService はAI生成メール本文をサニタイズする。
// 生成モデルの出力はMarkdownテキストを想定しているが、モデルが
// HTMLタグを混入させる可能性があるため、表示前に全タグを除去する。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// EmailSanitizerService はメール本文サニタイズ機能のインターフェースを定義する。
// 注文確定メールの生成結果をクライアントへ返す前に使用される。
type EmailSanitizerService interface {
	// Sanitize はテキストから全てのHTMLタグを除去する。
	// Markdownの記号（*、#、- など）はそのまま通過する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// emailSanitizer はEmailSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type emailSanitizer struct {
	policy *bluemonday.Policy
}

// NewEmailSanitizer はEmailSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを持たないため、script・iframe・img等を含む
// 全てのHTML要素が除去され、テキストのみが残る。
func NewEmailSanitizer() *emailSanitizer {
	return &emailSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストから全てのHTMLタグを除去する。
func (s *emailSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
