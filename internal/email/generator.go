package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/security"
)

// 生成不能時にクライアントへ返すフォールバック文。
// メール生成の失敗は注文の成立を妨げないため、エラーではなく
// 表示可能な文字列として返す。
const (
	fallbackNoAPIKey     = "Chave de API não configurada. Não foi possível gerar o e-mail automático via IA."
	fallbackAPIError     = "Ocorreu um erro ao comunicar com o assistente de IA para gerar o e-mail."
	fallbackEmptyContent = "Erro ao gerar e-mail."
)

// textGenerator はプロンプトからテキストを生成するインターフェース。
// GeminiClientが実装する。テストではスタブに差し替える。
type textGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Recorder はメール生成メトリクスの記録インターフェース。
type Recorder interface {
	RecordEmailSuccess(durationSeconds float64)
	RecordEmailFailure()
}

// Generator は注文確定メール本文の生成サービス。
// 失敗時は必ずフォールバック文を返し、エラーを境界の外へ出さない。
type Generator struct {
	client    textGenerator
	sanitizer security.EmailSanitizerService
	recorder  Recorder
	timeout   time.Duration
}

// NewGenerator はGeneratorを生成する。
// clientがnilの場合（APIキー未設定）は常にフォールバック文を返す。
// recorderはnil可。
func NewGenerator(client textGenerator, sanitizer security.EmailSanitizerService, recorder Recorder, timeout time.Duration) *Generator {
	return &Generator{
		client:    client,
		sanitizer: sanitizer,
		recorder:  recorder,
		timeout:   timeout,
	}
}

// GenerateOrderEmail は注文内容から確認メール本文を生成する。
// エラーを返さない。失敗の種別ごとに対応するフォールバック文を返す。
func (g *Generator) GenerateOrderEmail(ctx context.Context, items []model.CartLine, username string, total, shipping decimal.Decimal) string {
	if g.client == nil {
		return fallbackNoAPIKey
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.client.GenerateContent(ctx, buildPrompt(items, username, total, shipping))
	if err != nil {
		slog.Warn("order email generation failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		if g.recorder != nil {
			g.recorder.RecordEmailFailure()
		}
		return fallbackAPIError
	}
	if text == "" {
		if g.recorder != nil {
			g.recorder.RecordEmailFailure()
		}
		return fallbackEmptyContent
	}

	if g.recorder != nil {
		g.recorder.RecordEmailSuccess(time.Since(start).Seconds())
	}
	return g.sanitizer.Sanitize(text)
}

// buildPrompt は注文内容からプロンプトを組み立てる。
func buildPrompt(items []model.CartLine, username string, total, shipping decimal.Decimal) string {
	var itemsList strings.Builder
	for i, item := range items {
		if i > 0 {
			itemsList.WriteByte('\n')
		}
		fmt.Fprintf(&itemsList, "- %dx %s (R$ %s)", item.Quantity, item.Name, item.Price.StringFixed(2))
	}

	return fmt.Sprintf(`Você é um assistente administrativo de um sistema de pedidos B2B.
Escreva um e-mail formal e profissional de confirmação de pedido.

Detalhes do Pedido:
Cliente: %s
Itens:
%s

Frete: R$ %s
Total Geral: R$ %s

Instruções:
- O tom deve ser profissional e cortês.
- Mencione que uma planilha detalhada segue em anexo (simulado).
- Mencione que o pedido está sendo processado pelo setor logístico.
- Use formatação Markdown para destacar valores.
- Assine como "Equipe EasyOrder".
- Retorne APENAS o corpo do e-mail, sem cabeçalhos de assunto extras.`,
		username, itemsList.String(), shipping.StringFixed(2), total.StringFixed(2))
}
