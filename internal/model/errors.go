// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（ユーザー向け、ポルトガル語）
	Category string // カテゴリ: auth, validation, order, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeMissingFields      = "MISSING_REQUIRED_FIELDS"
	ErrCodePasswordMismatch   = "PASSWORD_MISMATCH"
	ErrCodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	ErrCodeDuplicateUser      = "DUPLICATE_USER"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeSelfDeletion       = "SELF_DELETION"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeRouteNotFound      = "ROUTE_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeInvalidRole        = "INVALID_ROLE"
	ErrCodeInvalidStatus      = "INVALID_ORDER_STATUS"
	ErrCodeInvalidPrice       = "INVALID_PRICE"
	ErrCodeInvalidPercentage  = "INVALID_PERCENTAGE"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Autenticação necessária.",
		Category: "auth",
		Action:   "Faça login para continuar.",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "Acesso restrito a administradores.",
		Category: "auth",
		Action:   "Entre com uma conta de administrador.",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// 識別子とパスワードのどちらが誤りかは区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Usuário ou senha incorretos.",
		Category: "auth",
		Action:   "Verifique suas credenciais e tente novamente.",
	}
}

// NewMissingFieldsError は必須項目未入力エラーを生成する。
func NewMissingFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  "Todos os campos são obrigatórios.",
		Category: "validation",
		Action:   "Preencha todos os campos e tente novamente.",
	}
}

// NewPasswordMismatchError はパスワード確認不一致エラーを生成する。
func NewPasswordMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordMismatch,
		Message:  "As senhas não conferem.",
		Category: "validation",
		Action:   "Digite a mesma senha nos dois campos.",
	}
}

// NewPasswordTooShortError はパスワード長不足エラーを生成する。
func NewPasswordTooShortError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordTooShort,
		Message:  "A senha deve ter pelo menos 3 caracteres.",
		Category: "validation",
		Action:   "Escolha uma senha mais longa.",
	}
}

// NewDuplicateUserError はユーザー名またはメールの重複エラーを生成する。
func NewDuplicateUserError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  "Já existe um usuário com este nome ou e-mail.",
		Category: "validation",
		Action:   "Utilize outro nome de usuário ou e-mail.",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("Usuário não encontrado: %s", userID),
		Category: "validation",
		Action:   "Verifique o identificador do usuário.",
	}
}

// NewSelfDeletionError はログイン中ユーザー自身の削除エラーを生成する。
func NewSelfDeletionError() *APIError {
	return &APIError{
		Code:     ErrCodeSelfDeletion,
		Message:  "Você não pode excluir seu próprio usuário enquanto está logado.",
		Category: "validation",
		Action:   "Peça a outro administrador para realizar a exclusão.",
	}
}

// NewProductNotFoundError は商品未検出エラーを生成する。
func NewProductNotFoundError(productID string) *APIError {
	return &APIError{
		Code:     ErrCodeProductNotFound,
		Message:  fmt.Sprintf("Produto não encontrado: %s", productID),
		Category: "validation",
		Action:   "Verifique o identificador do produto.",
	}
}

// NewRouteNotFoundError は配送ルート未検出エラーを生成する。
func NewRouteNotFoundError(routeID string) *APIError {
	return &APIError{
		Code:     ErrCodeRouteNotFound,
		Message:  fmt.Sprintf("Rota de frete não encontrada: %s", routeID),
		Category: "validation",
		Action:   "Verifique o identificador da rota.",
	}
}

// NewInvalidRoleError は未定義のロールエラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("Perfil de usuário inválido: %s", role),
		Category: "validation",
		Action:   "Use um dos perfis: admin, user.",
	}
}

// NewOrderNotFoundError は注文未検出エラーを生成する。
func NewOrderNotFoundError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("Pedido não encontrado: %s", orderID),
		Category: "order",
		Action:   "Verifique o número do pedido.",
	}
}

// NewInvalidStatusError は未定義の注文ステータスエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("Status de pedido inválido: %s", status),
		Category: "validation",
		Action:   "Use um dos status: PENDING, PROCESSING, SHIPPED, DELIVERED, CANCELLED.",
	}
}

// NewInvalidPriceError は不正な価格エラーを生成する。
func NewInvalidPriceError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPrice,
		Message:  fmt.Sprintf("Preço inválido: %s", raw),
		Category: "validation",
		Action:   "Informe um valor numérico não negativo.",
	}
}

// NewInvalidPercentageError は不正な配送料率エラーを生成する。
func NewInvalidPercentageError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPercentage,
		Message:  fmt.Sprintf("Percentual de frete inválido: %s", raw),
		Category: "validation",
		Action:   "Informe um percentual numérico não negativo.",
	}
}
