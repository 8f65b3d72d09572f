package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/easyorder/internal/model"
	"github.com/hitoshi/easyorder/internal/user"
)

type mockUserService struct {
	listFn   func(ctx context.Context) ([]*model.User, error)
	createFn func(ctx context.Context, input user.ManageInput) (*model.User, error)
	updateFn func(ctx context.Context, userID string, input user.ManageInput) (*model.User, error)
	deleteFn func(ctx context.Context, userID, actorID string) error
}

func (m *mockUserService) List(ctx context.Context) ([]*model.User, error) {
	return m.listFn(ctx)
}

func (m *mockUserService) Create(ctx context.Context, input user.ManageInput) (*model.User, error) {
	return m.createFn(ctx, input)
}

func (m *mockUserService) Update(ctx context.Context, userID string, input user.ManageInput) (*model.User, error) {
	return m.updateFn(ctx, userID, input)
}

func (m *mockUserService) Delete(ctx context.Context, userID, actorID string) error {
	return m.deleteFn(ctx, userID, actorID)
}

// TestListUsers は一覧返却とパスワード非公開を検証する。
func TestListUsers(t *testing.T) {
	service := &mockUserService{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{
				{ID: "u-1", Username: "Admin", Email: "admin@easyorder.com", Password: "secreta", Role: model.RoleAdmin},
			}, nil
		},
	}
	h := NewUserHandler(service)

	rec := httptest.NewRecorder()
	h.ListUsers(rec, authedRequest(http.MethodGet, "/api/admin/users", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	raw := rec.Body.String()
	var body []userResponse
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body) != 1 || body[0].Role != "admin" {
		t.Errorf("body = %+v", body)
	}
	if strings.Contains(raw, "secreta") || strings.Contains(raw, "password") {
		t.Error("response should not leak passwords")
	}
}

// TestCreateUser_AsAdmin は管理者によるユーザー作成を検証する。
func TestCreateUser_AsAdmin(t *testing.T) {
	var gotInput user.ManageInput
	service := &mockUserService{
		createFn: func(ctx context.Context, input user.ManageInput) (*model.User, error) {
			gotInput = input
			return &model.User{ID: "u-new", Username: input.Username, Email: input.Email, Role: input.Role}, nil
		},
	}
	h := NewUserHandler(service)

	body := `{"username":"Distribuidora Nova","email":"nova@dist.com","password":"abc","role":"admin","region_id":"r-2"}`
	rec := httptest.NewRecorder()
	h.CreateUser(rec, authedRequest(http.MethodPost, "/api/admin/users", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if gotInput.Role != model.RoleAdmin || gotInput.RegionID != "r-2" {
		t.Errorf("input = %+v", gotInput)
	}
}

// TestCreateUser_Duplicate は重複ユーザーの409を検証する。
func TestCreateUser_Duplicate(t *testing.T) {
	service := &mockUserService{
		createFn: func(ctx context.Context, input user.ManageInput) (*model.User, error) {
			return nil, model.NewDuplicateUserError()
		},
	}
	h := NewUserHandler(service)

	rec := httptest.NewRecorder()
	h.CreateUser(rec, authedRequest(http.MethodPost, "/api/admin/users",
		`{"username":"Admin","email":"admin@easyorder.com","password":"abc"}`))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

// TestDeleteUser はアクターIDがコンテキストから渡ることを検証する。
func TestDeleteUser(t *testing.T) {
	var gotUser, gotActor string
	service := &mockUserService{
		deleteFn: func(ctx context.Context, userID, actorID string) error {
			gotUser, gotActor = userID, actorID
			return nil
		},
	}
	h := NewUserHandler(service)

	req := urlParamRequest(authedRequest(http.MethodDelete, "/api/admin/users/u-2", ""), "id", "u-2")
	rec := httptest.NewRecorder()

	h.DeleteUser(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if gotUser != "u-2" || gotActor != "u-1" {
		t.Errorf("Delete(%q, %q), want (u-2, u-1)", gotUser, gotActor)
	}
}

// TestDeleteUser_Self は自己削除の409を検証する。
func TestDeleteUser_Self(t *testing.T) {
	service := &mockUserService{
		deleteFn: func(ctx context.Context, userID, actorID string) error {
			return model.NewSelfDeletionError()
		},
	}
	h := NewUserHandler(service)

	req := urlParamRequest(authedRequest(http.MethodDelete, "/api/admin/users/u-1", ""), "id", "u-1")
	rec := httptest.NewRecorder()

	h.DeleteUser(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	var body apiErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != model.ErrCodeSelfDeletion {
		t.Errorf("code = %q, want SELF_DELETION", body.Code)
	}
}
