package file_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"blogd/internal/domain/user"
	"blogd/internal/repo/file"
	"blogd/internal/store"
)

func newUsersRepo(t *testing.T) *file.UsersRepo {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	return file.NewUsersRepo(st)
}

func seedUsers(t *testing.T, repo *file.UsersRepo, n int) []user.User {
	t.Helper()

	ctx := context.Background()
	out := make([]user.User, 0, n)

	for i := 0; i < n; i++ {
		u, err := repo.Create(ctx, fmt.Sprintf("user%d", i), fmt.Sprintf("u%d@x.com", i), "hash", "user")

		if err != nil {
			t.Fatalf("seed create: %v", err)
		}

		out = append(out, u)
	}

	return out
}

func TestCreateAssignsUniqueSequentialIDs(t *testing.T) {
	repo := newUsersRepo(t)

	users := seedUsers(t, repo, 3)

	seen := map[int64]bool{}

	for _, u := range users {
		if seen[u.ID] {
			t.Fatalf("duplicate id %d", u.ID)
		}
		seen[u.ID] = true
	}

	if users[0].ID != 1 || users[2].ID != 3 {
		t.Fatalf("ids not sequential from 1: %+v", users)
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	repo := newUsersRepo(t)
	ctx := context.Background()

	users := seedUsers(t, repo, 3)

	// removing a middle record must not make its id reappear for the
	// highest-id path
	if _, err := repo.Delete(ctx, users[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	u, err := repo.Create(ctx, "late", "late@x.com", "hash", "user")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if u.ID != 4 {
		t.Fatalf("want id 4 after max id 3, got %d", u.ID)
	}
}

func TestGetByIDMissingReturnsNotFound(t *testing.T) {
	repo := newUsersRepo(t)
	seedUsers(t, repo, 2)

	_, err := repo.GetByID(context.Background(), 999)

	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	repo := newUsersRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Ann", "ann@x.com", "stored-hash", "user")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	role := "admin"

	updated, err := repo.Update(ctx, created.ID, user.UpdateUserRequest{Role: &role})

	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Role != "admin" {
		t.Fatalf("role not updated: %+v", updated)
	}

	if updated.Name != "Ann" || updated.Email != "ann@x.com" || updated.Password != "stored-hash" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	repo := newUsersRepo(t)

	name := "x"
	_, err := repo.Update(context.Background(), 42, user.UpdateUserRequest{Name: &name})

	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	repo := newUsersRepo(t)
	ctx := context.Background()

	users := seedUsers(t, repo, 1)

	removed, err := repo.Delete(ctx, users[0].ID)

	if err != nil {
		t.Fatalf("first delete: %v", err)
	}

	if removed.ID != users[0].ID {
		t.Fatalf("wrong record removed: %+v", removed)
	}

	_, err = repo.Delete(ctx, users[0].ID)

	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestPage(t *testing.T) {
	repo := newUsersRepo(t)
	seedUsers(t, repo, 15)

	ctx := context.Background()

	tests := []struct {
		name           string
		page, limit    int
		wantItems      int
		wantTotalPages int
	}{
		{name: "first page", page: 1, limit: 10, wantItems: 10, wantTotalPages: 2},
		{name: "partial last page", page: 2, limit: 10, wantItems: 5, wantTotalPages: 2},
		{name: "out of range", page: 3, limit: 10, wantItems: 0, wantTotalPages: 2},
		{name: "small limit", page: 2, limit: 5, wantItems: 5, wantTotalPages: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, totalItems, totalPages, err := repo.Page(ctx, tc.page, tc.limit)

			if err != nil {
				t.Fatalf("page: %v", err)
			}

			if totalItems != 15 {
				t.Fatalf("totalItems: want 15, got %d", totalItems)
			}

			if totalPages != tc.wantTotalPages {
				t.Fatalf("totalPages: want %d, got %d", tc.wantTotalPages, totalPages)
			}

			if len(items) != tc.wantItems {
				t.Fatalf("items: want %d, got %d", tc.wantItems, len(items))
			}

			if items == nil {
				t.Fatal("items must never be nil")
			}
		})
	}
}
