package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/lock"
)

func newUserService() (*UserService, *MockUserRepository) {
	repo := NewMockUserRepository()
	return NewUserService(repo, lock.NewNoOpLocker(), zerolog.Nop()), repo
}

func TestCreateUser(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected user ID to be assigned")
	}
	if user.Name != "Ann" || user.Email != "ann@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   CreateUserInput
		wantErr error
	}{
		{"blank name", CreateUserInput{Name: "  ", Email: "a@example.com"}, ErrInvalidName},
		{"empty email", CreateUserInput{Name: "Ann", Email: ""}, ErrInvalidEmail},
		{"malformed email", CreateUserInput{Name: "Ann", Email: "not-an-email"}, ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ann", Email: "ann@example.com"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Another Ann", Email: "ann@example.com"})
	if !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.GetUser(context.Background(), 404)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Name-only update keeps the email.
	newName := "Ann Lee"
	updated, err := svc.UpdateUser(ctx, UpdateUserInput{UserID: user.ID, Name: &newName})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Name != "Ann Lee" || updated.Email != "ann@example.com" {
		t.Errorf("unexpected user after name update: %+v", updated)
	}

	// Email-only update keeps the name.
	newEmail := "ann.lee@example.com"
	updated, err = svc.UpdateUser(ctx, UpdateUserInput{UserID: user.ID, Email: &newEmail})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Name != "Ann Lee" || updated.Email != "ann.lee@example.com" {
		t.Errorf("unexpected user after email update: %+v", updated)
	}
}

func TestUpdateUserEmailTaken(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ann", Email: "ann@example.com"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bob, err := svc.CreateUser(ctx, CreateUserInput{Name: "Bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	taken := "ann@example.com"
	_, err = svc.UpdateUser(ctx, UpdateUserInput{UserID: bob.ID, Email: &taken})
	if !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUpdateUserSameEmailAllowed(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Re-submitting the current email is not a conflict.
	same := "ann@example.com"
	if _, err := svc.UpdateUser(ctx, UpdateUserInput{UserID: user.ID, Email: &same}); err != nil {
		t.Errorf("expected same-email update to succeed, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{Name: "Ann", Email: "ann@example.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := svc.GetUser(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := svc.DeleteUser(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	for _, u := range []CreateUserInput{
		{Name: "Ann", Email: "ann@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
	} {
		if _, err := svc.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
}
