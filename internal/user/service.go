// Package user は管理者向けのユーザーディレクトリ管理を提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/repository"
)

// Service はユーザーディレクトリ管理のビジネスロジックを提供する。
// 全操作が管理者専用である前提（認可はハンドラー側のゲートで行う）。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// ManageInput は管理画面でのユーザー作成・更新の入力。
// 自己登録と異なり、管理者はロールを含む全フィールドを指定できる。
type ManageInput struct {
	Username string
	Email    string
	Password string
	Role     model.Role
	CNPJ     string
	City     string
	State    string
	RegionID string
}

// List は全ユーザーを登録順で返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create は管理者によるユーザー作成。名前・メール・パスワードは必須。
// ロールは明示指定が無ければuserになる。
func (s *Service) Create(ctx context.Context, input ManageInput) (*model.User, error) {
	if err := validateManageInput(&input); err != nil {
		return nil, err
	}

	for _, identifier := range []string{input.Username, input.Email} {
		existing, err := s.userRepo.FindByIdentifier(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("failed to check duplicate user: %w", err)
		}
		if existing != nil {
			return nil, model.NewDuplicateUserError()
		}
	}

	newUser := &model.User{
		ID:       uuid.New().String(),
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		RegionID: input.RegionID,
		CNPJ:     input.CNPJ,
		City:     input.City,
		State:    input.State,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created by admin",
		slog.String("user_id", newUser.ID),
		slog.String("role", string(newUser.Role)),
	)
	return newUser, nil
}

// Update は既存ユーザーを上書きする。
// 過去の注文はユーザー情報のスナップショットを保持するため影響を受けない。
func (s *Service) Update(ctx context.Context, userID string, input ManageInput) (*model.User, error) {
	if err := validateManageInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if existing == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	// 名前・メールの変更先が他ユーザーと衝突しないこと
	for _, identifier := range []string{input.Username, input.Email} {
		other, err := s.userRepo.FindByIdentifier(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("failed to check duplicate user: %w", err)
		}
		if other != nil && other.ID != userID {
			return nil, model.NewDuplicateUserError()
		}
	}

	updated := &model.User{
		ID:       userID,
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		RegionID: input.RegionID,
		CNPJ:     input.CNPJ,
		City:     input.City,
		State:    input.State,
		Address:  existing.Address,
		CEP:      existing.CEP,
	}
	if err := s.userRepo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("user updated by admin", slog.String("user_id", userID))
	return updated, nil
}

// Delete は指定ユーザーを削除する。
// ログイン中の管理者自身は削除できない（ロックアウト防止）。
// 過去の注文は残り、CSVエクスポートはスナップショットへフォールバックする。
func (s *Service) Delete(ctx context.Context, userID, actorID string) error {
	if userID == actorID {
		return model.NewSelfDeletionError()
	}

	existing, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if existing == nil {
		return model.NewUserNotFoundError(userID)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted by admin",
		slog.String("user_id", userID),
		slog.String("actor_id", actorID),
	)
	return nil
}

// validateManageInput は必須項目とロールを検証し、未指定のロールを補完する。
func validateManageInput(input *ManageInput) error {
	if strings.TrimSpace(input.Username) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Password) == "" {
		return model.NewMissingFieldsError()
	}
	if input.Role == "" {
		input.Role = model.RoleUser
	}
	if !input.Role.IsValid() {
		return model.NewInvalidRoleError(string(input.Role))
	}
	return nil
}
