// Package auth は認証フロー（ログイン・自己登録・セッション管理）を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/repository"
)

// minPasswordLength は自己登録時のパスワード最小長。
const minPasswordLength = 3

// LoginRecorder はログイン試行メトリクスの記録インターフェース。
type LoginRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cartRepo    repository.CartRepository
	recorder    LoginRecorder
	config      ServiceConfig
}

// NewService はServiceを生成する。recorderはnil可。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	cartRepo repository.CartRepository,
	recorder LoginRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cartRepo:    cartRepo,
		recorder:    recorder,
		config:      config,
	}
}

// Login は識別子（ユーザー名またはメールアドレス、大文字小文字を無視）と
// パスワードで認証し、セッションを発行する。
// 識別子不明とパスワード不一致は同じエラーとして扱い、区別しない。
func (s *Service) Login(ctx context.Context, identifier, password string) (*model.User, *model.Session, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, nil, model.NewMissingFieldsError()
	}

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || user.Password != password {
		if s.recorder != nil {
			s.recorder.RecordLoginFailure()
		}
		slog.Info("login rejected", slog.String("identifier", identifier))
		return nil, nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordLoginSuccess()
	}
	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, session, nil
}

// RegisterInput は自己登録フォームの入力。
type RegisterInput struct {
	RazaoSocial     string
	CNPJ            string
	Email           string
	Address         string
	City            string
	CEP             string
	State           string
	Password        string
	ConfirmPassword string
	RegionID        string
}

// Register は新規顧客を自己登録し、そのままログインさせる。
//
// 全項目必須。パスワードは確認入力と一致し最小長を満たすこと。
// ユーザー名・メールの重複は拒否する。作成されるロールは入力に
// 関わらず常にuserで、自己登録で管理者にはなれない。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, *model.Session, error) {
	fields := []string{
		input.RazaoSocial, input.CNPJ, input.Email, input.Address,
		input.City, input.CEP, input.State, input.Password,
		input.ConfirmPassword, input.RegionID,
	}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return nil, nil, model.NewMissingFieldsError()
		}
	}

	if input.Password != input.ConfirmPassword {
		return nil, nil, model.NewPasswordMismatchError()
	}
	if len(input.Password) < minPasswordLength {
		return nil, nil, model.NewPasswordTooShortError()
	}

	for _, identifier := range []string{input.RazaoSocial, input.Email} {
		existing, err := s.userRepo.FindByIdentifier(ctx, identifier)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check duplicate user: %w", err)
		}
		if existing != nil {
			return nil, nil, model.NewDuplicateUserError()
		}
	}

	newUser := &model.User{
		ID:       uuid.New().String(),
		Username: input.RazaoSocial,
		Email:    input.Email,
		Password: input.Password,
		Role:     model.RoleUser,
		RegionID: input.RegionID,
		CNPJ:     input.CNPJ,
		Address:  input.Address,
		City:     input.City,
		State:    input.State,
		CEP:      input.CEP,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.createSession(ctx, newUser.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", newUser.ID),
		slog.String("email", newUser.Email),
	)
	return newUser, session, nil
}

// RequestPasswordReset はパスワード再設定リンクの送信を受け付ける。
// メール送信基盤は持たないため、受け付けの記録のみを行う。
// アカウントの存在有無は応答から判別できない。
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return model.NewMissingFieldsError()
	}
	slog.Info("password reset requested", slog.String("email", email))
	return nil
}

// Logout はセッションとそのカートを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := s.cartRepo.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// CurrentUser はセッションから現在のユーザーを取得する。
// セッションが存在しない・期限切れ・ユーザーが削除済みの場合はnilを返す
// （エラーにはしない。認可判断は呼び出し元が行う）。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// createSession はセッションを作成し保存する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
