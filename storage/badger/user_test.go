package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/storage"
)

func TestUserBasics(t *testing.T) {
	taskRepo, subtaskRepo, userRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		userRepo.Close()
		subtaskRepo.Close()
		taskRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	user, err := userRepo.AddUser(ctx, &core.User{
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$fakehash",
	})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	if user.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	byID, err := userRepo.GetUser(ctx, user.Id)
	if err != nil {
		t.Fatalf("Failed to get user by ID: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Fatalf("Expected 'alice@example.com', got '%s'", byID.Email)
	}

	byEmail, err := userRepo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if byEmail.Id != user.Id {
		t.Fatalf("Expected ID %d, got %d", user.Id, byEmail.Id)
	}

	// Duplicate email is rejected
	_, err = userRepo.AddUser(ctx, &core.User{
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$otherhash",
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// Unknown email returns ErrNotFound
	_, err = userRepo.GetUserByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
